package models

// Website is a retailer site that product data is scraped from.
type Website struct {
	BaseModel
	Name       string `gorm:"uniqueIndex;not null"`
	Domain     string `gorm:"uniqueIndex;not null"`
	CurrencyID *uint
	Currency   *Unit `gorm:"foreignKey:CurrencyID"`
}

func (w *Website) TableName() string {
	return "websites"
}

package domain

import "github.com/shopspring/decimal"

type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
	UnitPound    Unit = "lb"
	UnitOunce    Unit = "oz"
	UnitBunch    Unit = "bunch"
	UnitPiece    Unit = "piece"
	UnitDozen    Unit = "dozen"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitPound, UnitOunce, UnitBunch, UnitPiece, UnitDozen:
		return true
	}
	return false
}

type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
)

func (c Category) Valid() bool {
	return c == CategoryVegetable || c == CategoryFruit
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Unit        Unit            `json:"unit"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
}

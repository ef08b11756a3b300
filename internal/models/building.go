package models

import "github.com/shopspring/decimal"

type Building struct {
	ID         ID               `json:"id"`
	Name       string           `json:"name"`
	Address    string           `json:"address"`
	RIF        string           `json:"rif,omitempty"`
	UnitCount  *int             `json:"unit_count,omitempty"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee,omitempty"`
}

type Unit struct {
	ID         ID              `json:"id"`
	Name       string          `json:"name"`
	Floor      string          `json:"floor"`
	Aliquot    decimal.Decimal `json:"aliquot"`
	BuildingID ID              `json:"building_id"`
}

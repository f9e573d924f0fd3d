package services

// UnitTypeOption is one choice offered by a line item unit type selector.
type UnitTypeOption struct {
	Value UnitType `json:"value"`
	Label string   `json:"label"`
}

// UnitTypeOptions returns the selectable unit types with their short labels.
var UnitTypeOptions = []UnitTypeOption{
	{Value: UnitPiece, Label: "шт"},
	{Value: UnitLinearMeter, Label: "м/п"},
	{Value: UnitAreaMeter, Label: "кв/м"},
}

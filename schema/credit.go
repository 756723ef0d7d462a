package schema

// Column keys of the credit dataset.
const (
	ColPurpose     = "objetivo_credito"
	ColAmount      = "importe_solicitado"
	ColStatus      = "estado_credito_N"
	ColDelinquency = "falta_pago"
	ColTenure      = "antiguedad_cliente"
	ColDuration    = "duracion_credito"
	ColDependents  = "personas_a_cargo"
)

// Tenure buckets, youngest relationship first.
const (
	TenureUnder2 = "menor_2y"
	Tenure2To4   = "2y_a_4y"
	TenureOver4  = "mayor_4y"
)

// TenureOrder is the fixed ordering of the tenure buckets.
func TenureOrder() []string {
	return []string{TenureUnder2, Tenure2To4, TenureOver4}
}

// CorrelationColumns are the numeric columns of the correlation heatmap.
func CorrelationColumns() []string {
	return []string{ColAmount, ColDuration, ColDependents}
}

// Credit returns the schema of the credit dataset.
func Credit() Config {
	tenure := DefaultDimension(ColTenure, "Antigüedad del cliente", TenureOrder())
	tenure.Order = TenureOrder()
	tenure.CardinalityHint = "low"

	amount := DefaultMeasure(ColAmount, "Importe solicitado")
	amount.Unit = "currency"
	duration := DefaultMeasure(ColDuration, "Duración del crédito")
	duration.Unit = "months"
	dependents := DefaultMeasure(ColDependents, "Personas a cargo")
	dependents.Unit = "persons"

	return Config{
		Name:        "Créditos",
		Version:     "1.0",
		Description: "Registros de créditos otorgados",
		Dimensions: []DimensionMeta{
			DefaultDimension(ColPurpose, "Objetivo del crédito", nil),
			DefaultDimension(ColStatus, "Estado del crédito", nil),
			DefaultDimension(ColDelinquency, "Falta de pago", nil),
			tenure,
		},
		Measures: []MeasureMeta{amount, duration, dependents},
	}
}

package dataset

// Column names follow the upstream catalog's French identifiers so that
// exported files match the source dataset field for field.
const (
	// ColumnTimestamp is the designated timestamp column.
	ColumnTimestamp = "date_heure"

	ColumnGasGRTgaz   = "consommation_brute_gaz_grtgaz"
	ColumnGasTerega   = "consommation_brute_gaz_terega"
	ColumnGasTotal    = "consommation_brute_gaz_totale"
	ColumnElectricity = "consommation_brute_electricite_rte"
	ColumnTotal       = "consommation_brute_totale"
)

// ConsumptionColumns returns the fixed set of numeric columns the pipeline
// guarantees exist after normalization, in coercion order.
func ConsumptionColumns() []string {
	return []string{
		ColumnGasGRTgaz,
		ColumnGasTerega,
		ColumnGasTotal,
		ColumnElectricity,
		ColumnTotal,
	}
}

// PlotPriority returns the consumption columns in the order they are offered
// for plotting.
func PlotPriority() []string {
	return []string{
		ColumnElectricity,
		ColumnGasTotal,
		ColumnTotal,
		ColumnGasGRTgaz,
		ColumnGasTerega,
	}
}

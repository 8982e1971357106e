// Package telemetry collects per-tick model-level and agent-level metrics
// into append-only time series and exports them.
package telemetry

import "log/slog"

// ModelRecord is one per-tick model-level snapshot.
type ModelRecord struct {
	Tick        int     `csv:"tick"`
	NFarmers    int     `csv:"n_farmers"`
	NAdopters   int     `csv:"n_adopters"`
	NPlants     int     `csv:"n_plants"`
	NewAdopters int     `csv:"new_adopters"`
	NSmall      int     `csv:"n_small"`
	NMedium     int     `csv:"n_medium"`
	NLarge      int     `csv:"n_large"`
	TotalMoney  float64 `csv:"total_money"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r ModelRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", r.Tick),
		slog.Int("n_farmers", r.NFarmers),
		slog.Int("n_adopters", r.NAdopters),
		slog.Int("n_plants", r.NPlants),
		slog.Int("new_adopters", r.NewAdopters),
		slog.Int("n_small", r.NSmall),
		slog.Int("n_medium", r.NMedium),
		slog.Int("n_large", r.NLarge),
		slog.Float64("total_money", r.TotalMoney),
	)
}

// AgentRecord is one per-tick snapshot of a single farmer.
type AgentRecord struct {
	Tick          int     `csv:"tick"`
	FarmerID      uint32  `csv:"farmer_id"`
	FarmSize      float64 `csv:"farm_size"`
	Willingness   float64 `csv:"willingness"`
	HasPlant      bool    `csv:"has_plant"`
	MoneyReceived float64 `csv:"money_received"`
}

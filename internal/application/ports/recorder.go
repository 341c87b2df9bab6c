package ports

// TransitionRecorder recibe cada cambio de estado del flujo para métricas.
// kind es "order", "material_request", "purchase_order" o "production".
type TransitionRecorder interface {
	RecordTransition(kind, status string)
}

// NopRecorder descarta las transiciones.
type NopRecorder struct{}

func (NopRecorder) RecordTransition(string, string) {}

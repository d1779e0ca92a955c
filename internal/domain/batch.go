package domain

// BatchFailure fallo de un elemento dentro de una operación en lote.
type BatchFailure struct {
	ID     string    `json:"id"`
	Kind   ErrorKind `json:"kind"`
	Reason string    `json:"reason"`
}

// BatchResult agrega el resultado de una operación en lote.
// Los éxitos nunca se revierten por fallos de otros elementos.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// NewBatchResult crea un resultado vacío (listas no nil para serializar como []).
func NewBatchResult() *BatchResult {
	return &BatchResult{Succeeded: []string{}, Failed: []BatchFailure{}}
}

// Record registra el resultado de un elemento.
func (r *BatchResult) Record(id string, err error) {
	if err == nil {
		r.Succeeded = append(r.Succeeded, id)
		return
	}
	r.Failed = append(r.Failed, BatchFailure{ID: id, Kind: KindOf(err), Reason: err.Error()})
}

func (r *BatchResult) SucceededCount() int { return len(r.Succeeded) }
func (r *BatchResult) FailedCount() int    { return len(r.Failed) }

// FailedIDs ids fallidos en orden de procesamiento.
func (r *BatchResult) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		ids = append(ids, f.ID)
	}
	return ids
}

package order

import (
	"time"

	"quickcart/internal/model"
)

// Step es un paso del timeline listo para pintar.
type Step struct {
	Key         Status     `json:"key"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Current     bool       `json:"current"`
	Timestamp   *time.Time `json:"timestamp"`
	Notes       *string    `json:"notes"`
}

type Timeline struct {
	Status    Status `json:"status"`
	Cancelled bool   `json:"cancelled"`
	Progress  int    `json:"progress"`
	Steps     []Step `json:"steps"`
}

// ProjectTimeline proyecta el estado actual sobre la secuencia canónica.
// El historial se busca por estado, no por posición; si hay varias
// entradas del mismo estado gana la más reciente. Un estado desconocido
// no completa ningún paso.
func ProjectTimeline(status string, history []model.StatusRecord) Timeline {
	current := Parse(status)
	byStatus := indexHistory(history)

	if current == Cancelled {
		meta := MetaOf(Cancelled)
		step := Step{
			Key:         Cancelled,
			Label:       meta.Label,
			Description: meta.Description,
			Current:     true,
		}
		fill(&step, byStatus[Cancelled])
		return Timeline{Status: Cancelled, Cancelled: true, Steps: []Step{step}}
	}

	idx := current.Index()
	steps := make([]Step, 0, len(Sequence))
	for i, s := range Sequence {
		meta := MetaOf(s)
		step := Step{
			Key:         s,
			Label:       meta.Label,
			Description: meta.Description,
			Completed:   idx >= i,
			Current:     idx == i,
		}
		fill(&step, byStatus[s])
		steps = append(steps, step)
	}

	return Timeline{Status: current, Progress: Progress(current), Steps: steps}
}

func indexHistory(history []model.StatusRecord) map[Status]*model.StatusRecord {
	out := make(map[Status]*model.StatusRecord, len(history))
	for i := range history {
		h := &history[i]
		key := Parse(h.Status)
		if prev, ok := out[key]; ok && prev.Timestamp.After(h.Timestamp) {
			continue
		}
		out[key] = h
	}
	return out
}

func fill(step *Step, rec *model.StatusRecord) {
	if rec == nil {
		return
	}
	if !rec.Timestamp.IsZero() {
		ts := rec.Timestamp
		step.Timestamp = &ts
	}
	if rec.Notes != "" {
		notes := rec.Notes
		step.Notes = &notes
	}
}

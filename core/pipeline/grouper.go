package pipeline

import "github.com/konradh/hpi-ii-project-2022/model"

// CompanyBatch is the ordered filing history of one company.
type CompanyBatch struct {
	CompanyID int64
	Events    []model.RawEvent
}

// Grouper cuts a raw event stream ordered by company id into per-company
// batches without buffering more than one company at a time.
type Grouper struct {
	current *CompanyBatch
}

// Push adds an event to the grouper. When the event starts a new company's
// history, the previous company's completed batch is returned.
func (g *Grouper) Push(event model.RawEvent) *CompanyBatch {
	if g.current != nil && g.current.CompanyID == event.CompanyID {
		g.current.Events = append(g.current.Events, event)
		return nil
	}
	done := g.current
	g.current = &CompanyBatch{CompanyID: event.CompanyID, Events: []model.RawEvent{event}}
	return done
}

// Flush returns the last open batch, or nil when the stream was empty.
func (g *Grouper) Flush() *CompanyBatch {
	done := g.current
	g.current = nil
	return done
}

// GroupByCompany batches a fully loaded event slice, preserving stream order.
func GroupByCompany(events []model.RawEvent) []*CompanyBatch {
	grouper := &Grouper{}
	var batches []*CompanyBatch
	for _, event := range events {
		if done := grouper.Push(event); done != nil {
			batches = append(batches, done)
		}
	}
	if done := grouper.Flush(); done != nil {
		batches = append(batches, done)
	}
	return batches
}

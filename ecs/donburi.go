// Package ecs provides ECS adapters for backdrop.
package ecs

import (
	"github.com/phanxgames/backdrop"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BackdropEventType is the Donburi event type for backdrop events.
// Subscribe to this in your ECS systems to receive section changes,
// visibility changes and shooting-star resets.
var BackdropEventType = events.NewEventType[backdrop.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Backdrop events are published to BackdropEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) backdrop.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event backdrop.Event) {
	BackdropEventType.Publish(s.world, event)
}

// PageStateData mirrors the backdrop's navigation and visibility state
// inside the ECS world.
type PageStateData struct {
	Section       int
	Visible       bool
	SectionVisits map[int]int
	StarResets    int
}

// PageState is the component holding PageStateData.
var PageState = donburi.NewComponentType[PageStateData]()

// NewPageStateTracker creates an entity with a PageState component and
// subscribes it to BackdropEventType. The component is updated whenever the
// world's events are processed.
func NewPageStateTracker(world donburi.World) donburi.Entity {
	entity := world.Create(PageState)
	PageState.SetValue(world.Entry(entity), PageStateData{
		Section:       -1,
		Visible:       true,
		SectionVisits: make(map[int]int),
	})

	BackdropEventType.Subscribe(world, func(w donburi.World, e backdrop.Event) {
		if !w.Valid(entity) {
			return
		}
		st := PageState.Get(w.Entry(entity))
		switch e.Type {
		case backdrop.EventSectionChange:
			st.Section = e.Section
			if e.Section >= 0 {
				st.SectionVisits[e.Section]++
			}
		case backdrop.EventVisibilityChange:
			st.Visible = e.Visible
		case backdrop.EventShootingStarReset:
			st.StarResets++
		}
	})
	return entity
}

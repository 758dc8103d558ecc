package scene

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Actor is a positioned object carrying scripts.
type Actor struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position v3.Vec    `json:"position"`
	Scripts  []Script  `json:"-"`
}

// AddScript attaches a script to the actor.
func (a *Actor) AddScript(s Script) {
	a.Scripts = append(a.Scripts, s)
}

// Scene holds actors in spawn order.
type Scene struct {
	actors map[uuid.UUID]*Actor
	order  []uuid.UUID
	names  map[string]uuid.UUID // first actor spawned under each name
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{
		actors: make(map[uuid.UUID]*Actor),
		names:  make(map[string]uuid.UUID),
	}
}

// Spawn creates an actor with a fresh ID and adds it to the scene.
func (s *Scene) Spawn(name string, pos v3.Vec, scripts ...Script) *Actor {
	a := &Actor{
		ID:       uuid.New(),
		Name:     name,
		Position: pos,
		Scripts:  scripts,
	}
	s.Add(a)
	return a
}

// Add inserts an existing actor. An actor with the same ID is replaced in place.
func (s *Scene) Add(a *Actor) {
	if _, exists := s.actors[a.ID]; !exists {
		s.order = append(s.order, a.ID)
	}
	s.actors[a.ID] = a
	if _, taken := s.names[a.Name]; !taken && a.Name != "" {
		s.names[a.Name] = a.ID
	}
}

// Remove deletes an actor. It reports whether the actor existed.
func (s *Scene) Remove(id uuid.UUID) bool {
	a, ok := s.actors[id]
	if !ok {
		return false
	}
	delete(s.actors, id)
	s.order = lo.Without(s.order, id)
	if s.names[a.Name] == id {
		delete(s.names, a.Name)
		// Hand the name to the next actor that carries it, if any.
		for _, other := range s.Actors() {
			if other.Name == a.Name {
				s.names[a.Name] = other.ID
				break
			}
		}
	}
	return true
}

// Get returns the actor with the given ID, or nil.
func (s *Scene) Get(id uuid.UUID) *Actor {
	return s.actors[id]
}

// Lookup returns the first actor spawned with the given name, or nil.
func (s *Scene) Lookup(name string) *Actor {
	id, ok := s.names[name]
	if !ok {
		return nil
	}
	return s.actors[id]
}

// Actors returns all actors in spawn order.
func (s *Scene) Actors() []*Actor {
	return lo.Map(s.order, func(id uuid.UUID, _ int) *Actor {
		return s.actors[id]
	})
}

// Len returns the number of actors.
func (s *Scene) Len() int {
	return len(s.order)
}

package journey

import "sync"

// OrphanHandler is notified when a step is registered while no journey is
// current. The step is dropped either way.
type OrphanHandler func(step Step)

// Registry collects journeys in registration order and tracks the journey
// that step registrations are currently appended to.
type Registry struct {
	mu       sync.Mutex
	journeys []*Journey
	current  *Journey
	onOrphan OrphanHandler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetOrphanHandler installs the callback for steps registered outside a journey.
func (r *Registry) SetOrphanHandler(handler OrphanHandler) {
	r.mu.Lock()
	r.onOrphan = handler
	r.mu.Unlock()
}

// AddJourney appends the journey and makes it current.
func (r *Registry) AddJourney(j *Journey) {
	if j == nil {
		return
	}
	r.mu.Lock()
	r.journeys = append(r.journeys, j)
	r.current = j
	r.mu.Unlock()
}

// AddStep appends the step to the current journey. It reports false when no
// journey is current, in which case the step is dropped.
func (r *Registry) AddStep(step Step) bool {
	r.mu.Lock()
	current := r.current
	handler := r.onOrphan
	r.mu.Unlock()

	if current == nil {
		if handler != nil {
			handler(step)
		}
		return false
	}
	current.appendStep(step)
	return true
}

// Journey registers a journey by name and returns it.
func (r *Registry) Journey(name string, setup SetupFunc) *Journey {
	j := New(name, setup)
	r.AddJourney(j)
	return j
}

// Step registers a step on the current journey.
func (r *Registry) Step(name string, action StepFunc) bool {
	return r.AddStep(Step{Name: name, Action: action})
}

// Journeys returns the registered journeys in registration order.
func (r *Registry) Journeys() []*Journey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Journey(nil), r.journeys...)
}

// Len returns the number of registered journeys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.journeys)
}

// Current returns the journey steps are being appended to, or nil.
func (r *Registry) Current() *Journey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetCurrent points step registration at j. Passing nil clears it.
func (r *Registry) SetCurrent(j *Journey) {
	r.mu.Lock()
	r.current = j
	r.mu.Unlock()
}

// Reset drops every journey and clears the current journey. Steps registered
// on the dropped journeys are discarded so a journey added again starts empty.
func (r *Registry) Reset() {
	r.mu.Lock()
	for _, j := range r.journeys {
		j.resetSteps()
	}
	r.journeys = nil
	r.current = nil
	r.mu.Unlock()
}

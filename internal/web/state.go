package web

import (
	"html/template"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

// View is the page section being shown.
type View int

const (
	ViewHome View = iota
	ViewAbout
)

func (v View) String() string {
	switch v {
	case ViewAbout:
		return "about"
	default:
		return "home"
	}
}

// RequestState is one of Idle, Pending, Succeeded or Failed.
type RequestState interface {
	requestState()
}

type Idle struct{}

type Pending struct{}

// Succeeded holds the recipe shown in the modal.
type Succeeded struct {
	ID     string
	Title  string
	Raw    string
	Recipe template.HTML
}

// Failed holds the message shown under the form.
type Failed struct {
	Message string
}

func (Idle) requestState()      {}
func (Pending) requestState()   {}
func (Succeeded) requestState() {}
func (Failed) requestState()    {}

// State is everything a page render depends on. The modal is open exactly
// when Request is Succeeded, so it can never be open without a recipe.
// Closing the modal is a plain link to a fresh Home state.
type State struct {
	View    View
	Form    recipe.Request
	Request RequestState
}

func NewState(view View) State {
	return State{View: view, Request: Idle{}}
}

// ShowAbout switches to the About section and leaves the request untouched.
func (s State) ShowAbout() State {
	s.View = ViewAbout
	return s
}

// Submit starts a generation for form. Any earlier error is replaced.
func (s State) Submit(form recipe.Request) State {
	s.Form = form
	s.Request = Pending{}
	return s
}

// Resolve moves a pending request to Succeeded. The recipe HTML must come from
// recipe.FormatRecipeHTML.
func (s State) Resolve(g *recipe.Generated) State {
	if _, ok := s.Request.(Pending); !ok {
		return s
	}
	s.Request = Succeeded{
		ID:     g.ID,
		Title:  g.Title,
		Raw:    g.Raw,
		Recipe: template.HTML(g.HTML),
	}
	return s
}

// Fail moves a pending request to Failed.
func (s State) Fail(message string) State {
	if _, ok := s.Request.(Pending); !ok {
		return s
	}
	s.Request = Failed{Message: message}
	return s
}

func (s State) ModalOpen() bool {
	_, ok := s.Request.(Succeeded)
	return ok
}

// ErrorMessage is empty unless the last request failed.
func (s State) ErrorMessage() string {
	if f, ok := s.Request.(Failed); ok {
		return f.Message
	}
	return ""
}

// Recipe returns the modal contents, if any.
func (s State) Recipe() (Succeeded, bool) {
	r, ok := s.Request.(Succeeded)
	return r, ok
}

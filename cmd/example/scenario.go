package main

import (
	"fmt"
	"io"

	"github.com/wippyai/managed"
)

// Dog announces its construction and destruction so the order of lifecycle
// events is visible in the output.
type Dog struct {
	out  io.Writer
	name string
}

// NewDog creates a dog and prints "<name> is created".
func NewDog(out io.Writer, name string) *Dog {
	fmt.Fprintf(out, "%s is created\n", name)
	return &Dog{out: out, name: name}
}

// Drop prints "<name> is destroyed". It is the dog's deleter.
func (d *Dog) Drop() {
	fmt.Fprintf(d.out, "%s is destroyed\n", d.name)
}

func (d *Dog) Name() string {
	return d.name
}

// scenario replays the lifecycle demo against one handle.
type scenario struct {
	out  io.Writer
	mark func(string) string
	dog  *managed.Ptr[Dog]
	next int
}

type step struct {
	title string
	run   func(s *scenario)
}

func newScenario(out io.Writer, mark func(string) string) *scenario {
	if mark == nil {
		mark = func(s string) string { return s }
	}
	return &scenario{
		out:  out,
		mark: mark,
		dog:  &managed.Ptr[Dog]{},
	}
}

func (s *scenario) say(text string) {
	fmt.Fprintln(s.out, s.mark("> "+text))
}

func (s *scenario) newDog(name string) *Dog {
	return NewDog(s.out, name)
}

// done reports whether every step has run.
func (s *scenario) done() bool {
	return s.next >= len(steps)
}

// step runs the next step and returns its title.
func (s *scenario) step() string {
	if s.done() {
		return ""
	}
	st := steps[s.next]
	s.next++
	st.run(s)
	return st.title
}

func (s *scenario) runAll() {
	for !s.done() {
		s.step()
	}
}

var steps = []step{
	{"create Fido", func(s *scenario) {
		s.say("Creating Fido")
		s.dog.Assign(managed.Make(s.newDog("Fido")))
	}},
	{"replace Fido with Rover", func(s *scenario) {
		s.say("Replacing Fido with Rover via Assign")
		s.dog.Assign(managed.Make(s.newDog("Rover")))
	}},
	{"release Rover", func(s *scenario) {
		s.say("Calling Release()")
		s.dog.Release()
		s.say("After release")
	}},
	{"create Lassie", func(s *scenario) {
		s.say("Creating Lassie")
		s.dog.Assign(managed.Make(s.newDog("Lassie")))
		s.say("After creating Lassie")
	}},
	{"reset to Spot", func(s *scenario) {
		s.say("Calling ResetTo()")
		s.dog.ResetTo(s.newDog("Spot"))
		s.say("After reset")
	}},
	{"reset to nil", func(s *scenario) {
		s.say("Calling ResetTo() with nil")
		s.dog.ResetTo(nil)
		s.say("After reset")
	}},
	{"wrap and reset Spike", func(s *scenario) {
		spike := s.newDog("Spike")
		s.say("Creating Spike")
		s.dog.Assign(managed.Make(spike))
		s.say("After creating Spike")
		s.dog.Reset()
		s.say("After reset")
	}},
	{"wrap and reset Dawg", func(s *scenario) {
		dawg := s.newDog("Dawg")
		s.say("Creating Dawg")
		s.dog.Assign(managed.Make(dawg))
		s.say("After creating Dawg")
		s.dog.Reset()
		s.say("After reset")
	}},
	{"reset Snoopy with deletion disabled", func(s *scenario) {
		s.say("Creating Snoopy")
		s.dog.Assign(managed.Make(s.newDog("Snoopy")))
		s.dog.DisableDelete()
		s.dog.Reset()
		s.say("After reset")
	}},
	{"close untyped Scooby", func(s *scenario) {
		s.say("Creating Scooby")
		scoobyPtr := s.newDog("Scooby")
		var scooby managed.Untyped = managed.Make(scoobyPtr)
		s.say("After creating Scooby")
		s.say("Deleting untyped Scooby")
		_ = scooby.Close()
		s.say("After delete")
	}},
	{"return", func(s *scenario) {
		s.say("returning...")
		_ = s.dog.Close()
	}},
}

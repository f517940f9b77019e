package ecsforge

import (
	"github.com/TheBitDrifter/bark"
)

// scheduleSystemCapacity bounds how many systems a single Schedule may
// register; large enough for any realistic stage graph while keeping
// the backing SimpleCache's storage pre-sizeable.
const scheduleSystemCapacity = 4096

// Schedule orders Systems into named stages and runs each stage in
// two passes: every system's Run, then every system's deferred
// CommandBuffer flush, so an Immediate system's direct World edits
// are visible to every NextFlush system's flush in the same stage.
// Ported from a single-threaded Rust scheduler; the comment there
// notes a parallel scheduler needs a full sync between the two
// passes, which Go's single-goroutine Run already gives for free.
type Schedule struct {
	stageOrder []string
	stages     map[string][]*System
	systems    *SimpleCache[*System]
}

// NewSchedule returns an empty Schedule with no stages.
func NewSchedule() *Schedule {
	return &Schedule{
		stages:  make(map[string][]*System),
		systems: FactoryNewCache[*System](scheduleSystemCapacity),
	}
}

// AddStage appends a new, empty stage to the end of the run order.
// Panics if the stage already exists.
func (s *Schedule) AddStage(stage string) {
	if _, ok := s.stages[stage]; ok {
		panic(bark.AddTrace(DuplicateStageError{Stage: stage}))
	}
	s.stages[stage] = nil
	s.stageOrder = append(s.stageOrder, stage)
}

// AddStageAfter inserts a new stage immediately after target. Panics
// if stage already exists or target does not.
func (s *Schedule) AddStageAfter(target, stage string) {
	if _, ok := s.stages[stage]; ok {
		panic(bark.AddTrace(DuplicateStageError{Stage: stage}))
	}
	idx := s.indexOf(target)
	if idx < 0 {
		panic(bark.AddTrace(MissingStageError{Stage: target}))
	}
	s.stages[stage] = nil
	s.stageOrder = append(s.stageOrder, "")
	copy(s.stageOrder[idx+2:], s.stageOrder[idx+1:])
	s.stageOrder[idx+1] = stage
}

// AddStageBefore inserts a new stage immediately before target.
// Panics if stage already exists or target does not.
func (s *Schedule) AddStageBefore(target, stage string) {
	if _, ok := s.stages[stage]; ok {
		panic(bark.AddTrace(DuplicateStageError{Stage: stage}))
	}
	idx := s.indexOf(target)
	if idx < 0 {
		panic(bark.AddTrace(MissingStageError{Stage: target}))
	}
	s.stages[stage] = nil
	s.stageOrder = append(s.stageOrder, "")
	copy(s.stageOrder[idx+1:], s.stageOrder[idx:])
	s.stageOrder[idx] = stage
}

func (s *Schedule) indexOf(stage string) int {
	for i, name := range s.stageOrder {
		if name == stage {
			return i
		}
	}
	return -1
}

// AddSystemToStage appends sys to stage's system list, in the order
// added. Panics if the stage does not exist or a system with the same
// name is already registered anywhere in the Schedule.
func (s *Schedule) AddSystemToStage(stage string, sys *System) {
	if _, ok := s.stages[stage]; !ok {
		panic(bark.AddTrace(MissingStageError{Stage: stage}))
	}
	if _, ok := s.systems.GetIndex(sys.Name()); ok {
		panic(bark.AddTrace(DuplicateSystemError{System: sys.Name()}))
	}
	if _, err := s.systems.Register(sys.Name(), sys); err != nil {
		panic(bark.AddTrace(err))
	}
	s.stages[stage] = append(s.stages[stage], sys)
}

// Lookup returns the system registered under name, if any. Systems are
// registered in AddSystemToStage call order, so each system's index in
// the backing cache is stable for the lifetime of the Schedule.
func (s *Schedule) Lookup(name string) (*System, bool) {
	idx, ok := s.systems.GetIndex(name)
	if !ok {
		return nil, false
	}
	return *s.systems.GetItem(idx), true
}

// Run executes every stage in order, each as a run-then-flush pair:
// every system in the stage runs first, then every system's pending
// CommandBuffer (if any) is applied to w, in the same registration
// order. A panic from inside any system propagates to the caller
// uncaught; Schedule does not swallow programmer errors.
func (s *Schedule) Run(w *World, r *Resources) {
	for _, stage := range s.stageOrder {
		systems := s.stages[stage]
		for _, sys := range systems {
			sys.Run(w, r)
		}
		for _, sys := range systems {
			if err := sys.RunThreadLocal(w); err != nil {
				panic(bark.AddTrace(err))
			}
		}
	}
}

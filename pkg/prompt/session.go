// Package prompt drives the interactive creation panel from a terminal.
package prompt

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/inputs"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session asks for inputs one at a time and commits each through the
// manager's setup panel, the same path a user clicking through the panel
// takes.
type Session struct {
	manager *inputs.Manager
	setup   *inputs.Setup
	driver  PromptDriver
	logger  *zap.Logger
}

// New renders the setup panel of manager and binds a session to it.
func New(manager *inputs.Manager, options ...Option) (*Session, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}
	s := &Session{
		manager: manager,
		driver:  NewSurveyDriver(os.Stdin, os.Stdout),
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	setup, err := manager.SetupInteractiveCreation()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	s.setup = setup
	return s, nil
}

// Setup exposes the panel the session drives.
func (s *Session) Setup() *inputs.Setup {
	return s.setup
}

// Run keeps adding inputs until the user declines another one and returns
// the final snapshot.
func (s *Session) Run(ctx context.Context) (string, error) {
	for {
		inst, err := s.addOne(ctx)
		if err != nil {
			return "", err
		}
		if inst != nil {
			if err := s.driver.Info(ctx, fmt.Sprintf("Added %q (%s)", inst.Name(), inst.Type())); err != nil {
				return "", err
			}
		}

		more, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Add another input?", Default: true})
		if err != nil {
			return "", err
		}
		if !more {
			break
		}
	}
	return s.manager.Serialize()
}

func (s *Session) addOne(ctx context.Context) (*inputs.Instance, error) {
	types := s.setup.Types()
	current := indexOf(types, s.setup.Type())
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      "Input type",
		Options:      s.setup.Labels(),
		DefaultIndex: current,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(types) {
		return nil, fmt.Errorf("prompt: selection %d out of range: %w", idx, templates.ErrUnknownType)
	}
	if err := s.setup.SelectType(types[idx]); err != nil {
		return nil, err
	}

	name, err := s.driver.Input(ctx, InputConfig{Message: "Name", Default: s.setup.Name()})
	if err != nil {
		return nil, err
	}
	s.setup.SetName(name)

	for _, field := range s.setup.OptionalFields() {
		existing, _ := s.setup.OptionalField(field)
		value, err := s.driver.Input(ctx, InputConfig{Message: fieldLabel(field), Default: existing})
		if err != nil {
			return nil, err
		}
		if err := s.setup.SetOptionalField(field, value); err != nil {
			return nil, err
		}
	}

	if err := s.askValue(ctx); err != nil {
		return nil, err
	}

	inst, err := s.setup.Add()
	if err != nil {
		s.logger.Warn("input not added", zap.String("type", types[idx]), zap.Error(err))
		if infoErr := s.driver.Info(ctx, "Could not add input: "+err.Error()); infoErr != nil {
			return nil, infoErr
		}
		return nil, nil
	}
	return inst, nil
}

// askValue prompts until the preview accepts the value.
func (s *Session) askValue(ctx context.Context) error {
	preview := s.setup.Preview()
	if preview == nil {
		return nil
	}
	multiline := preview.Tag() == "textarea"
	for {
		var (
			value string
			err   error
		)
		if multiline {
			value, err = s.driver.TextArea(ctx, TextAreaConfig{Message: "Value", Default: s.setup.Value()})
		} else {
			value, err = s.driver.Input(ctx, InputConfig{Message: "Value", Default: s.setup.Value()})
		}
		if err != nil {
			return err
		}
		s.setup.SetValue(value)

		problem, invalid := preview.Attr(templates.AttrError)
		if !invalid {
			return nil
		}
		if err := s.driver.Info(ctx, "Invalid value: "+problem); err != nil {
			return err
		}
	}
}

func fieldLabel(field string) string {
	label := strings.NewReplacer("-", " ", "_", " ").Replace(field)
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/satchelhq/satchel"
	"github.com/satchelhq/satchel/pkg/domain"
)

// Scenario scripts a full session for unattended runs: canned answers
// for every prompt, plus optional expectations checked afterwards.
type Scenario struct {
	Platform string
	Locale   string
	Answers  []Answer
	Expect   Expect
}

// Answer is one scripted reply. Prompt selects what it answers.
type Answer struct {
	Prompt string `mapstructure:"prompt"` // file | confirm | consent
	Path   string `mapstructure:"path"`   // file: export path, empty skips
	Again  bool   `mapstructure:"again"`  // confirm: try again?
	Action string `mapstructure:"action"` // consent: donate | decline | review
}

// Expect holds post-run assertions. Nil fields are not checked.
type Expect struct {
	ExitCode  *int `mapstructure:"exit_code"`
	Donations *int `mapstructure:"donations"`
}

// LoadScenario reads a YAML scenario file. Answers and expectations
// are decoded from loose maps so unknown keys fail loudly rather than
// being silently dropped.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var raw struct {
		Platform string           `yaml:"platform"`
		Locale   string           `yaml:"locale"`
		Answers  []map[string]any `yaml:"answers"`
		Expect   map[string]any   `yaml:"expect"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if raw.Platform == "" {
		return nil, fmt.Errorf("scenario: platform is required")
	}

	sc := &Scenario{Platform: raw.Platform, Locale: raw.Locale}
	for i, m := range raw.Answers {
		var a Answer
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &a,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(m); err != nil {
			return nil, fmt.Errorf("scenario answer %d: %w", i+1, err)
		}
		switch a.Prompt {
		case "file", "confirm", "consent":
		default:
			return nil, fmt.Errorf("scenario answer %d: unknown prompt %q", i+1, a.Prompt)
		}
		sc.Answers = append(sc.Answers, a)
	}
	if raw.Expect != nil {
		if err := mapstructure.Decode(raw.Expect, &sc.Expect); err != nil {
			return nil, fmt.Errorf("scenario expect: %w", err)
		}
	}
	return sc, nil
}

// Host returns a scripted host that consumes the scenario's answers in
// order. Prompts the script does not cover fail the run.
func (s *Scenario) Host(printer *Printer) satchel.Host {
	next := 0
	take := func(want string) (Answer, error) {
		if next >= len(s.Answers) {
			return Answer{}, fmt.Errorf("scenario: session asked for a %s prompt but the script has no answers left", want)
		}
		a := s.Answers[next]
		if a.Prompt != want {
			return Answer{}, fmt.Errorf("scenario: answer %d is for %q but the session asked for %q", next+1, a.Prompt, want)
		}
		next++
		return a, nil
	}

	return func(_ context.Context, cmd domain.RenderUI) (domain.Payload, error) {
		printer.Command(cmd)

		pg, kind := classify(cmd.Page)
		switch kind {
		case promptFile:
			a, err := take("file")
			if err != nil {
				return nil, err
			}
			if a.Path == "" {
				return domain.VoidPayload{}, nil
			}
			ref, err := openFileRef(a.Path)
			if err != nil {
				return nil, err
			}
			return domain.FilePayload{File: ref}, nil

		case promptConfirm:
			a, err := take("confirm")
			if err != nil {
				return nil, err
			}
			if a.Again {
				return domain.TruePayload{}, nil
			}
			return domain.FalsePayload{}, nil

		case promptConsent:
			a, err := take("consent")
			if err != nil {
				return nil, err
			}
			switch a.Action {
			case "donate", "":
				value, err := consentValue(pg)
				if err != nil {
					return nil, err
				}
				return domain.JSONPayload{Value: value}, nil
			case "review":
				return domain.TruePayload{}, nil
			case "decline":
				return domain.FalsePayload{}, nil
			default:
				return nil, fmt.Errorf("scenario: unknown consent action %q", a.Action)
			}

		default:
			return domain.VoidPayload{}, nil
		}
	}
}

// Check verifies the scenario's expectations against a finished run.
func (s *Scenario) Check(res *satchel.RunResult) error {
	if s.Expect.ExitCode != nil && res.Exit.Code != *s.Expect.ExitCode {
		return fmt.Errorf("expected exit code %d, got %d (%s)", *s.Expect.ExitCode, res.Exit.Code, res.Exit.Message)
	}
	if s.Expect.Donations != nil && len(res.Donations) != *s.Expect.Donations {
		return fmt.Errorf("expected %d donations, got %d", *s.Expect.Donations, len(res.Donations))
	}
	return nil
}

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/satchelhq/satchel/pkg/domain"
)

// fileRef serves a local file as the host-side file capability.
type fileRef struct {
	f    *os.File
	name string
	size int64
}

func openFileRef(path string) (*fileRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat export file: %w", err)
	}
	return &fileRef{f: f, name: info.Name(), size: info.Size()}, nil
}

func (r *fileRef) Name() string { return r.name }
func (r *fileRef) Size() int64  { return r.size }

func (r *fileRef) ReadSlice(offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := r.f.ReadAt(buf, offset)
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (r *fileRef) Close() error { return r.f.Close() }

// promptKind classifies a page by the input it requests.
type promptKind int

const (
	promptNone promptKind = iota
	promptFile
	promptConfirm
	promptConsent
)

func classify(page domain.Prop) (domain.Page, promptKind) {
	pg, ok := page.(domain.Page)
	if !ok {
		return domain.Page{}, promptNone
	}
	for _, prop := range pg.Body {
		switch prop.(type) {
		case domain.FileInput:
			return pg, promptFile
		case domain.Confirm:
			return pg, promptConfirm
		case domain.DonateButtons:
			return pg, promptConsent
		}
	}
	return pg, promptNone
}

// consentValue serializes the reviewed tables the way a browser host
// would submit them.
func consentValue(pg domain.Page) (string, error) {
	type consentedTable struct {
		ID        string `json:"id"`
		DataFrame string `json:"data_frame"`
	}
	var tables []consentedTable
	for _, prop := range pg.Body {
		if t, ok := prop.(domain.ConsentFormTable); ok {
			tables = append(tables, consentedTable{ID: t.ID, DataFrame: t.Table.JSON()})
		}
	}
	raw, err := json.Marshal(map[string]any{"tables": tables})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Interactive returns a host that prompts on the terminal: file paths
// for file prompts, y/n for confirms, and donate/decline/review for
// the consent form.
func Interactive(in io.Reader, printer *Printer) func(context.Context, domain.RenderUI) (domain.Payload, error) {
	lines := bufio.NewScanner(in)
	readLine := func(prompt string) (string, error) {
		fmt.Fprint(os.Stdout, prompt)
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return strings.TrimSpace(lines.Text()), nil
	}

	return func(_ context.Context, cmd domain.RenderUI) (domain.Payload, error) {
		printer.Command(cmd)

		pg, kind := classify(cmd.Page)
		switch kind {
		case promptFile:
			path, err := readLine("path to export file (empty to skip) > ")
			if err != nil {
				return nil, err
			}
			if path == "" {
				return domain.VoidPayload{}, nil
			}
			ref, err := openFileRef(path)
			if err != nil {
				fmt.Fprintf(os.Stdout, ">>> %v\n", err)
				return domain.VoidPayload{}, nil
			}
			return domain.FilePayload{File: ref}, nil

		case promptConfirm:
			answer, err := readLine("[y/n] > ")
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(strings.ToLower(answer), "y") {
				return domain.TruePayload{}, nil
			}
			return domain.FalsePayload{}, nil

		case promptConsent:
			answer, err := readLine("donate? [y]es / [n]o / [r]eview again > ")
			if err != nil {
				return nil, err
			}
			switch strings.ToLower(answer) {
			case "y", "yes":
				value, err := consentValue(pg)
				if err != nil {
					return nil, err
				}
				return domain.JSONPayload{Value: value}, nil
			case "r", "review":
				return domain.TruePayload{}, nil
			default:
				return domain.FalsePayload{}, nil
			}

		default:
			return domain.VoidPayload{}, nil
		}
	}
}

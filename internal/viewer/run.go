package viewer

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Cerebrovinny/apihealth/internal/client"
)

// Run mounts a Model in an interactive program and blocks until it quits.
// It returns an error wrapping ErrUnhealthy when the view ends in StateError.
func Run(ctx context.Context, fetcher client.Fetcher, opts ...Option) error {
	m := New(fetcher, append(opts, WithContext(ctx))...)
	defer m.Unmount()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.opts.inputSet {
		programOpts = append(programOpts, tea.WithInput(m.opts.input))
	}
	if m.opts.output != nil {
		programOpts = append(programOpts, tea.WithOutput(m.opts.output))
	}

	final, err := tea.NewProgram(m, programOpts...).Run()
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}

	if fm, ok := final.(Model); ok && fm.state == StateError {
		return fmt.Errorf("%w: %s", ErrUnhealthy, fm.message)
	}
	return nil
}

// RunPlain performs the single fetch without a terminal UI and writes the unstyled
// text of each state the view enters to w.
func RunPlain(ctx context.Context, w io.Writer, fetcher client.Fetcher) error {
	m := New(fetcher, WithContext(ctx))
	defer m.Unmount()

	if _, err := fmt.Fprintln(w, Render(m.state, m.status, m.message)); err != nil {
		return err
	}

	next, _ := m.Update(m.fetch()())
	fm := next.(Model)
	if fm.state == StateLoading {
		return fmt.Errorf("viewer: %w", context.Cause(fm.mount.ctx))
	}

	if _, err := fmt.Fprintln(w, Render(fm.state, fm.status, fm.message)); err != nil {
		return err
	}

	if fm.state == StateError {
		return fmt.Errorf("%w: %s", ErrUnhealthy, fm.message)
	}
	return nil
}

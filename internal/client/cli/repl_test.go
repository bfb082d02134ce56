package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeExec) List(context.Context) error            { return f.record("list") }
func (f *fakeExec) Show(_ context.Context, id int64) error { return f.record("show %d", id) }
func (f *fakeExec) New(context.Context) error             { return f.record("new") }
func (f *fakeExec) Edit(_ context.Context, id int64) error { return f.record("edit %d", id) }
func (f *fakeExec) Delete(_ context.Context, id int64) error {
	return f.record("delete %d", id)
}
func (f *fakeExec) Export(_ context.Context, target string) error {
	return f.record("export %q", target)
}
func (f *fakeExec) Import(_ context.Context, name, target string) error {
	return f.record("import %s %q", name, target)
}
func (f *fakeExec) Backups(_ context.Context, target string) error {
	return f.record("backups %q", target)
}
func (f *fakeExec) Key(context.Context) error { return f.record("key") }
func (f *fakeExec) AddMinutes(_ context.Context, l, e, labs int) error {
	return f.record("minutes %d %d %d", l, e, labs)
}
func (f *fakeExec) LoadDir(_ context.Context, dir string) error { return f.record("load %s", dir) }
func (f *fakeExec) Tracks(context.Context) error                { return f.record("tracks") }
func (f *fakeExec) Play(_ context.Context, n int) error         { return f.record("play %d", n) }
func (f *fakeExec) Pause(context.Context) error                 { return f.record("pause") }
func (f *fakeExec) Resume(context.Context) error                { return f.record("resume") }
func (f *fakeExec) Stop(context.Context) error                  { return f.record("stop") }
func (f *fakeExec) SetMode(_ context.Context, m string) error   { return f.record("mode %s", m) }
func (f *fakeExec) Status(context.Context) error                { return f.record("status") }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runLines(t *testing.T, lines ...string) *fakeExec {
	t.Helper()
	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "(0 min)" }, sc)
	return exec
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := runLines(t,
		"help",
		"l",
		"list",
		"show 3",
		"new",
		"add",
		"edit 4",
		"delete 5",
		"export",
		"export s3",
		"import journal_backup_2024-03-01.json",
		"import b.json s3",
		"backups",
		"key",
		"minutes 1 2 3",
		"minutes 2",
		"load /music/my songs",
		"tracks",
		"play",
		"play 2",
		"pause",
		"resume",
		"stop",
		"mode shuffle",
		"status",
		"exit",
		"list",
	)

	want := []string{
		"list",
		"list",
		"show 3",
		"new",
		"new",
		"edit 4",
		"delete 5",
		`export ""`,
		`export "s3"`,
		`import journal_backup_2024-03-01.json ""`,
		`import b.json "s3"`,
		`backups ""`,
		"key",
		"minutes 1 2 3",
		"minutes 2 0 0",
		"load /music/my songs",
		"tracks",
		"play 0",
		"play 2",
		"pause",
		"resume",
		"stop",
		"mode shuffle",
		"status",
	}
	assert.Equal(t, want, exec.calls, "commands after exit must not run")
}

func TestRunREPL_UsageErrorsDoNotDispatch(t *testing.T) {
	out := capturePrintln(t)

	exec := runLines(t,
		"show",
		"show abc",
		"edit 0",
		"delete -1",
		"import",
		"minutes",
		"minutes 1 2 3 4",
		"minutes x",
		"load",
		"play 0",
		"play next",
		"mode",
		"",
		"   ",
		"frobnicate",
		"quit",
	)

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: show <id>")
	assert.Contains(t, joined, "Usage: edit <id>")
	assert.Contains(t, joined, "Usage: delete <id>")
	assert.Contains(t, joined, "Usage: import <file> [local|s3]")
	assert.Contains(t, joined, "Usage: minutes <lessons> <exercises> <labs>")
	assert.Contains(t, joined, "Usage: load <dir>")
	assert.Contains(t, joined, "Usage: play [track number]")
	assert.Contains(t, joined, "Unknown command:frobnicate")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_NegativeMinutesReachHandler(t *testing.T) {
	capturePrintln(t)

	exec := runLines(t, "minutes -1 0 0")

	assert.Equal(t, []string{"minutes -1 0 0"}, exec.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	out := capturePrintln(t)

	runLines(t, "exit")

	assert.Equal(t, "journal (0 min)> ", (*out)[0])
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context, id int64) error
	New(ctx context.Context) error
	Edit(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error

	Export(ctx context.Context, target string) error
	Import(ctx context.Context, name, target string) error
	Backups(ctx context.Context, target string) error
	Key(ctx context.Context) error

	AddMinutes(ctx context.Context, lessons, exercises, labs int) error
	LoadDir(ctx context.Context, dir string) error
	Tracks(ctx context.Context) error
	Play(ctx context.Context, index int) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	SetMode(ctx context.Context, mode string) error
	Status(ctx context.Context) error
}

const helpText = `Journal:  (l)ist, show <id>, new, edit <id>, delete <id>
Backups:  export [local|s3], import <file> [local|s3], backups [local|s3], key
Music:    minutes <lessons> <exercises> <labs>, load <dir>, tracks,
          play [n], pause, resume, stop, mode <normal|repeat|repeat_all|shuffle>, status
Other:    help, exit`

// runREPL reads commands from scanner until EOF, "exit" or "quit" and
// dispatches them to a. The prompt shows statusFn().
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures through notifications.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("journal %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			_ = a.List(ctx)

		case "show", "edit", "delete":
			id, ok := parseID(args)
			if !ok {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				_ = a.Show(ctx, id)
			case "edit":
				_ = a.Edit(ctx, id)
			default:
				_ = a.Delete(ctx, id)
			}

		case "new", "add":
			_ = a.New(ctx)

		case "export":
			_ = a.Export(ctx, optionalArg(args, 0))

		case "import":
			if len(args) == 0 {
				printlnFn("Usage: import <file> [local|s3]")
				continue
			}
			_ = a.Import(ctx, args[0], optionalArg(args, 1))

		case "backups":
			_ = a.Backups(ctx, optionalArg(args, 0))

		case "key":
			_ = a.Key(ctx)

		case "minutes":
			counts, ok := parseCounts(args)
			if !ok {
				printlnFn("Usage: minutes <lessons> <exercises> <labs>")
				continue
			}
			_ = a.AddMinutes(ctx, counts[0], counts[1], counts[2])

		case "load":
			if len(args) == 0 {
				printlnFn("Usage: load <dir>")
				continue
			}
			_ = a.LoadDir(ctx, strings.Join(args, " "))

		case "tracks":
			_ = a.Tracks(ctx)

		case "play":
			n := 0
			if len(args) > 0 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					printlnFn("Usage: play [track number]")
					continue
				}
				n = v
			}
			_ = a.Play(ctx, n)

		case "pause":
			_ = a.Pause(ctx)

		case "resume":
			_ = a.Resume(ctx)

		case "stop":
			_ = a.Stop(ctx)

		case "mode":
			if len(args) == 0 {
				printlnFn("Usage: mode <normal|repeat|repeat_all|shuffle>")
				continue
			}
			_ = a.SetMode(ctx, args[0])

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseCounts reads the three activity counts. Missing trailing values are
// zero; negative values pass through so the engine can reject them.
func parseCounts(args []string) ([3]int, bool) {
	var counts [3]int
	if len(args) == 0 || len(args) > 3 {
		return counts, false
	}
	for i, s := range args {
		v, err := strconv.Atoi(s)
		if err != nil {
			return counts, false
		}
		counts[i] = v
	}
	return counts, true
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

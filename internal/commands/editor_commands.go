package commands

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/core/find"
	"github.com/bethropolis/tidecore/internal/highlighter"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/theme"
)

type command struct {
	name  string
	usage string
	fn    func(ed *core.Editor, out io.Writer, args []string) error
}

var editorCommands = []command{
	{"edit", "<offset> <deleted> <text>", cmdEdit},
	{"insert", "<offset> <text>", cmdInsert},
	{"delete", "<offset> <length>", cmdDelete},
	{"type", "<text>", cmdType},
	{"backspace", "[-rune]", cmdBackspace},
	{"del", "", func(ed *core.Editor, _ io.Writer, _ []string) error { ed.DeleteForward(); return nil }},
	{"cursor", "[offset]", cmdCursor},
	{"move", "<lines> <cols>", cmdMove},
	{"select", "[<anchor> <end>]", cmdSelect},
	{"undo", "", func(ed *core.Editor, _ io.Writer, _ []string) error { return ed.Undo() }},
	{"redo", "", func(ed *core.Editor, _ io.Writer, _ []string) error { return ed.Redo() }},
	{"find", "[-regex] [-case] [-word] <pattern>", cmdFind},
	{"next", "", func(ed *core.Editor, out io.Writer, _ []string) error { return printMatch(out, ed.FindNext) }},
	{"prev", "", func(ed *core.Editor, out io.Writer, _ []string) error { return printMatch(out, ed.FindPrevious) }},
	{"matches", "", cmdMatches},
	{"replace", "<text>", cmdReplace},
	{"replaceall", "<text>", cmdReplaceAll},
	{"stop", "", func(ed *core.Editor, _ io.Writer, _ []string) error { ed.StopSearch(); return nil }},
	{"copy", "<start> <end>", cmdCopy},
	{"cut", "<start> <end>", cmdCut},
	{"paste", "", cmdPaste},
	{"spans", "[<start> <end>]", cmdSpans},
	{"lines", "", cmdLines},
	{"print", "", func(ed *core.Editor, out io.Writer, _ []string) error {
		_, err := io.WriteString(out, ed.Text()+"\n")
		return err
	}},
	{"status", "", cmdStatus},
	{"lang", "<name>", cmdLang},
	{"theme", "<path>", cmdTheme},
	{"save", "[path]", cmdSave},
}

// RegisterEditorCommands registers the editing, search, clipboard and
// query commands for ed. Query results are written to out.
func RegisterEditorCommands(r *Registry, ed *core.Editor, out io.Writer) {
	for _, c := range editorCommands {
		c := c
		err := r.Register(c.name, c.usage, func(args []string) error { return c.fn(ed, out, args) })
		if err != nil {
			logger.Warnf("Failed to register '%s' command: %v", c.name, err)
		}
	}
}

func ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, ErrUsage
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrUsage, args[i])
		}
		out[i] = v
	}
	return out, nil
}

func cmdEdit(ed *core.Editor, _ io.Writer, args []string) error {
	n, err := ints(args, 2)
	if err != nil || len(args) != 3 {
		return ErrUsage
	}
	ed.HandleEdit(n[0], n[1], []byte(args[2]))
	return nil
}

func cmdInsert(ed *core.Editor, _ io.Writer, args []string) error {
	n, err := ints(args, 1)
	if err != nil || len(args) != 2 {
		return ErrUsage
	}
	ed.HandleEdit(n[0], 0, []byte(args[1]))
	return nil
}

func cmdDelete(ed *core.Editor, _ io.Writer, args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}
	ed.HandleEdit(n[0], n[1], nil)
	return nil
}

func cmdType(ed *core.Editor, _ io.Writer, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	ed.TypeString(args[0])
	return nil
}

func cmdBackspace(ed *core.Editor, _ io.Writer, args []string) error {
	fs := flag.NewFlagSet("backspace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	byRune := fs.Bool("rune", false, "delete one code point instead of a grapheme cluster")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	if *byRune {
		ed.DeleteRune()
		return nil
	}
	ed.DeleteBackward()
	return nil
}

func cmdCursor(ed *core.Editor, out io.Writer, args []string) error {
	if len(args) == 0 {
		pos := ed.Position(ed.GetCursor())
		_, err := fmt.Fprintf(out, "%d %d:%d\n", ed.GetCursor(), pos.Line, pos.Col)
		return err
	}
	n, err := ints(args, 1)
	if err != nil {
		return err
	}
	ed.SetCursor(n[0])
	return nil
}

func cmdMove(ed *core.Editor, _ io.Writer, args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}
	ed.MoveCursor(n[0], n[1])
	return nil
}

func cmdSelect(ed *core.Editor, out io.Writer, args []string) error {
	if len(args) == 0 {
		ed.ClearSelection()
		return nil
	}
	n, err := ints(args, 2)
	if err != nil {
		return err
	}
	ed.Select(n[0], n[1])
	return nil
}

func cmdFind(ed *core.Editor, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts find.Options
	fs.BoolVar(&opts.Regex, "regex", false, "treat the pattern as a regular expression")
	fs.BoolVar(&opts.CaseSensitive, "case", false, "match case")
	fs.BoolVar(&opts.WholeWord, "word", false, "only whitespace-delimited matches")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	n, err := ed.Find(fs.Arg(0), opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%d matches\n", n)
	return err
}

func printMatch(out io.Writer, step func() (find.Match, bool)) error {
	m, ok := step()
	if !ok {
		_, err := fmt.Fprintln(out, "no match")
		return err
	}
	_, err := fmt.Fprintf(out, "%d %d\n", m.Start, m.End)
	return err
}

func cmdMatches(ed *core.Editor, out io.Writer, _ []string) error {
	matches, current := ed.Matches()
	for i, m := range matches {
		mark := " "
		if i == current {
			mark = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %d %d\n", mark, m.Start, m.End); err != nil {
			return err
		}
	}
	return nil
}

func cmdReplace(ed *core.Editor, out io.Writer, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if !ed.ReplaceCurrent([]byte(args[0])) {
		_, err := fmt.Fprintln(out, "no match")
		return err
	}
	return nil
}

func cmdReplaceAll(ed *core.Editor, out io.Writer, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	n := ed.ReplaceAll([]byte(args[0]))
	_, err := fmt.Fprintf(out, "%d replaced\n", n)
	return err
}

func cmdCopy(ed *core.Editor, _ io.Writer, args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}
	ed.Copy(n[0], n[1])
	return nil
}

func cmdCut(ed *core.Editor, _ io.Writer, args []string) error {
	n, err := ints(args, 2)
	if err != nil {
		return err
	}
	ed.Cut(n[0], n[1])
	return nil
}

func cmdPaste(ed *core.Editor, _ io.Writer, _ []string) error {
	_, err := ed.Paste()
	return err
}

func cmdSpans(ed *core.Editor, out io.Writer, args []string) error {
	start, end := 0, len(ed.Text())
	if len(args) > 0 {
		n, err := ints(args, 2)
		if err != nil {
			return err
		}
		start, end = n[0], n[1]
	}
	palette := ed.GetHighlightManager().Palette()
	for _, s := range ed.VisibleSpans(start, end) {
		if _, err := fmt.Fprintf(out, "%d %d %s\n", s.Start, s.End, palette.Name(s.Style)); err != nil {
			return err
		}
	}
	return nil
}

func cmdLines(ed *core.Editor, out io.Writer, _ []string) error {
	for i := 0; i < ed.LineCount(); i++ {
		if _, err := fmt.Fprintf(out, "%d %d %d\n", i, ed.LineStart(i), ed.LineEnd(i)); err != nil {
			return err
		}
	}
	return nil
}

func cmdStatus(ed *core.Editor, out io.Writer, _ []string) error {
	hl := ed.GetHighlightManager()
	matches, current := ed.Matches()
	_, err := fmt.Fprintf(out, "length=%d lines=%d cursor=%d undo=%t redo=%t matches=%d current=%d generation=%d applied=%d\n",
		len(ed.Text()), ed.LineCount(), ed.GetCursor(), ed.CanUndo(), ed.CanRedo(),
		len(matches), current, hl.Generation(), hl.AppliedGeneration())
	return err
}

func cmdLang(ed *core.Editor, _ io.Writer, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	tok := highlighter.ForLanguage(args[0])
	if tok == nil {
		return fmt.Errorf("no highlighter for language %q", args[0])
	}
	ed.SetTokenizer(tok)
	return nil
}

func cmdTheme(ed *core.Editor, out io.Writer, args []string) error {
	if len(args) != 1 {
		_, err := fmt.Fprintf(out, "Current theme: %s\n", ed.GetHighlightManager().Palette().ThemeName())
		return err
	}
	t, err := theme.LoadThemeFromFile(args[0])
	if err != nil {
		return err
	}
	ed.SetTheme(t)
	_, err = fmt.Fprintf(out, "Theme set to: %s\n", t.Name)
	return err
}

func cmdSave(ed *core.Editor, _ io.Writer, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return ed.SaveBuffer(path)
}

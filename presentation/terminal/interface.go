package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"web_navigator/application/navigator"
	"web_navigator/domain/entities"
	"web_navigator/domain/interfaces"
	"web_navigator/infrastructure/browser"
	"web_navigator/infrastructure/config"
	"web_navigator/infrastructure/screen"
	"web_navigator/infrastructure/security"
	"web_navigator/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

type TerminalInterface struct {
	nav      *navigator.Navigator
	session  *navigator.Session
	logger   *logrus.Logger
	guard    interfaces.CommandGuard
	reader   *bufio.Reader
	out      io.Writer
	commands map[string]command
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

var errQuit = errors.New("quit")

// NewTerminalInterface - starts the configured browser and wires the navigator
func NewTerminalInterface(cfg config.Config) (*TerminalInterface, error) {
	// Setup logger
	logger := cfg.NewLogger()

	// Initialize browser driver
	opts, err := cfg.BrowserOptions()
	if err != nil {
		return nil, err
	}

	driver, err := browser.Open(logger, cfg.Backend, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	// Initialize localStorage snapshots
	store, err := storage.NewLocalStorageState(cfg.StateDir)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize navigator
	nav := navigator.NewNavigator(logger,
		navigator.WithDefaultWait(cfg.Wait.Timeout, cfg.Wait.PollInterval),
		navigator.WithImageMatching(cfg.Image.Confidence, cfg.Image.Grayscale),
		navigator.WithScreen(screen.NewDisplay(logger, cfg.Display), screen.NewMatcher()),
		navigator.WithLocalStorageStore(store),
	)

	t := newTerminal(nav, navigator.NewSession(driver, opts.Capabilities), logger, os.Stdin, os.Stdout)

	// Initialize security guard
	if cfg.ConfirmDestructive {
		t.guard = security.NewGuard(logger)
	}
	return t, nil
}

func newTerminal(nav *navigator.Navigator, sess *navigator.Session, logger *logrus.Logger, in io.Reader, out io.Writer) *TerminalInterface {
	t := &TerminalInterface{
		nav:     nav,
		session: sess,
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	t.commands = map[string]command{
		"open":    {"open <url>", t.cmdOpen},
		"find":    {"find <by> <value>", t.cmdFind},
		"click":   {"click <by> <value>", t.cmdClick},
		"type":    {"type <by> <value> [-- <text>]", t.cmdType},
		"frame":   {"frame [<by> <value>]", t.cmdFrame},
		"headers": {"headers [header=a,b] [key=a,b] [cookie=a,b]", t.cmdHeaders},
		"network": {"network [header=a,b] [key=a,b] [cookie=a,b]", t.cmdNetwork},
		"console": {"console", t.cmdConsole},
		"shot":    {"shot <path> [left top right bottom]", t.cmdShot},
		"scroll":  {"scroll <dx> <dy> | scroll bottom", t.cmdScroll},
		"exec":    {"exec <script>", t.cmdExec},
		"storage": {"storage get <k> | set <k> <v> | rm <k> | clear | list | save | restore | origins", t.cmdStorage},
		"alert":   {"alert accept|dismiss", t.cmdAlert},
		"image":   {"image find|click|move <path>...", t.cmdImage},
		"help":    {"help", t.cmdHelp},
		"quit":    {"quit", func(context.Context, []string) error { return errQuit }},
	}
	t.commands["exit"] = t.commands["quit"]
	t.commands["q"] = t.commands["quit"]
	return t
}

func (t *TerminalInterface) Run(ctx context.Context) error {
	fmt.Fprintln(t.out, "Web Navigator")
	fmt.Fprintln(t.out, "=============")
	fmt.Fprintln(t.out, "Type 'help' for commands, or 'quit' to exit")
	fmt.Fprintln(t.out)

	for {
		fmt.Fprint(t.out, "> ")
		input, err := t.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		err = t.Execute(ctx, input)
		switch {
		case errors.Is(err, errQuit):
			fmt.Fprintln(t.out, "Bye!")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			fmt.Fprintf(t.out, "Error: %v\n", err)
		}
	}
}

// Execute runs a single command line
func (t *TerminalInterface) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := t.commands[strings.ToLower(fields[0])]
	if !ok {
		return fmt.Errorf("%w: unknown command %q, try 'help'", entities.ErrInvalidArgument, fields[0])
	}
	if t.guard != nil && t.guard.RequiresApproval(fields[0], fields[1:]) {
		approved, err := t.confirm(strings.Join(fields, " "))
		if err != nil {
			return err
		}
		if !approved {
			fmt.Fprintln(t.out, "cancelled")
			return nil
		}
	}
	return cmd.run(ctx, fields[1:])
}

// confirm asks for a y/n answer on the console input
func (t *TerminalInterface) confirm(line string) (bool, error) {
	fmt.Fprintf(t.out, "Confirm %q? [y/N] ", line)
	answer, err := t.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "д", "да":
		return true, nil
	}
	return false, nil
}

func (t *TerminalInterface) Close() error {
	return t.session.Close()
}

func usageError(usage string) error {
	return fmt.Errorf("%w: usage: %s", entities.ErrInvalidArgument, usage)
}

func (t *TerminalInterface) cmdHelp(context.Context, []string) error {
	names := make([]string, 0, len(t.commands))
	for name := range t.commands {
		if name == "exit" || name == "q" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(t.out, "  %s\n", t.commands[name].usage)
	}
	return nil
}

func (t *TerminalInterface) cmdOpen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("open <url>")
	}
	return t.nav.Navigate(ctx, t.session, args[0])
}

func (t *TerminalInterface) cmdFind(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("find <by> <value>")
	}
	el, err := t.nav.SearchByElement(ctx, t.session, args[0], strings.Join(args[1:], " "), false)
	if err != nil {
		return err
	}
	if el == nil {
		fmt.Fprintln(t.out, "not found")
		return nil
	}
	text, err := el.Text()
	if err != nil {
		t.logger.Warnf("Failed to read element text: %v", err)
	}
	fmt.Fprintf(t.out, "found: %q\n", text)
	return nil
}

func (t *TerminalInterface) cmdClick(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("click <by> <value>")
	}
	return t.nav.ClickElement(ctx, t.session, args[0], strings.Join(args[1:], " "))
}

// cmdType splits value and text at "--" so both may contain spaces. Without
// the separator the value is a single word.
func (t *TerminalInterface) cmdType(ctx context.Context, args []string) error {
	const usage = "type <by> <value> [-- <text>]"
	if len(args) < 3 {
		return usageError(usage)
	}
	by, rest := args[0], args[1:]

	value, text := rest[0], strings.Join(rest[1:], " ")
	for i, a := range rest {
		if a == "--" {
			if i == 0 || i == len(rest)-1 {
				return usageError(usage)
			}
			value, text = strings.Join(rest[:i], " "), strings.Join(rest[i+1:], " ")
			break
		}
	}
	return t.nav.TypeText(ctx, t.session, by, value, text)
}

func (t *TerminalInterface) cmdFrame(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		return t.nav.ChangeFrame(ctx, t.session, "", "")
	case 1:
		return usageError("frame [<by> <value>]")
	default:
		return t.nav.ChangeFrame(ctx, t.session, args[0], strings.Join(args[1:], " "))
	}
}

// parseFilter reads header=a,b key=a,b cookie=a,b arguments
func parseFilter(args []string) (entities.HeaderFilter, error) {
	var f entities.HeaderFilter
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return f, fmt.Errorf("%w: filter %q must look like name=a,b", entities.ErrInvalidArgument, arg)
		}
		values := strings.Split(value, ",")
		switch name {
		case "header":
			f.HeadersRequired = append(f.HeadersRequired, values...)
		case "key":
			f.KeysRequired = append(f.KeysRequired, values...)
		case "cookie":
			f.CookiesRequired = append(f.CookiesRequired, values...)
		default:
			return f, fmt.Errorf("%w: unknown filter %q", entities.ErrInvalidArgument, name)
		}
	}
	return f, nil
}

func (t *TerminalInterface) cmdHeaders(ctx context.Context, args []string) error {
	filter, err := parseFilter(args)
	if err != nil {
		return err
	}
	headers, ok, err := t.nav.GetHeaders(ctx, t.session, filter)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(t.out, "no matching request")
		return nil
	}
	t.printMap(headers)
	return nil
}

func (t *TerminalInterface) cmdNetwork(ctx context.Context, args []string) error {
	filter, err := parseFilter(args)
	if err != nil {
		return err
	}
	entries, err := t.nav.NetworkEntries(ctx, t.session, filter)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(t.out, "%s %v headers=%d\n", e.Timestamp.Format("15:04:05.000"), e.Params["requestId"], len(e.Headers()))
	}
	fmt.Fprintf(t.out, "%d matching requests\n", len(entries))
	return nil
}

func (t *TerminalInterface) cmdConsole(ctx context.Context, _ []string) error {
	entries, err := t.nav.BrowserLogs(ctx, t.session)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(t.out, "[%s] %s\n", e.Level, e.Raw)
	}
	return nil
}

func parseRect(args []string) (*entities.Rect, error) {
	if len(args) == 0 {
		return nil, nil
	}
	if len(args) != 4 {
		return nil, fmt.Errorf("%w: crop needs left top right bottom", entities.ErrInvalidArgument)
	}
	var v [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: crop value %q is not an integer", entities.ErrInvalidArgument, a)
		}
		v[i] = n
	}
	return &entities.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}

func (t *TerminalInterface) cmdShot(ctx context.Context, args []string) error {
	if len(args) != 1 && len(args) != 5 {
		return usageError("shot <path> [left top right bottom]")
	}
	crop, err := parseRect(args[1:])
	if err != nil {
		return err
	}
	path, err := t.nav.Screenshot(ctx, t.session, args[0], crop)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "saved %s\n", path)
	return nil
}

func (t *TerminalInterface) cmdScroll(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "bottom" {
		return t.nav.ScrollToBottom(ctx, t.session)
	}
	if len(args) != 2 {
		return usageError("scroll <dx> <dy> | scroll bottom")
	}
	dx, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError("scroll <dx> <dy>")
	}
	dy, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError("scroll <dx> <dy>")
	}
	return t.nav.Scroll(ctx, t.session, dx, dy)
}

func (t *TerminalInterface) cmdExec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("exec <script>")
	}
	res, err := t.nav.ExecuteScript(ctx, t.session, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "%v\n", res)
	return nil
}

func (t *TerminalInterface) cmdStorage(ctx context.Context, args []string) error {
	const usage = "storage get <k> | set <k> <v> | rm <k> | clear | list | save | restore | origins"
	if len(args) == 0 {
		return usageError(usage)
	}

	switch sub, rest := args[0], args[1:]; {
	case sub == "get" && len(rest) == 1:
		v, ok, err := t.nav.LocalStorageGet(ctx, t.session, rest[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(t.out, "not set")
			return nil
		}
		fmt.Fprintln(t.out, v)
	case sub == "set" && len(rest) >= 2:
		return t.nav.LocalStorageSet(ctx, t.session, rest[0], strings.Join(rest[1:], " "))
	case sub == "rm" && len(rest) == 1:
		return t.nav.LocalStorageRemove(ctx, t.session, rest[0])
	case sub == "clear" && len(rest) == 0:
		return t.nav.LocalStorageClear(ctx, t.session)
	case sub == "list" && len(rest) == 0:
		items, err := t.nav.LocalStorageItems(ctx, t.session)
		if err != nil {
			return err
		}
		t.printMap(items)
	case sub == "save" && len(rest) == 0:
		origin, err := t.nav.SaveLocalStorage(ctx, t.session)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "saved %s\n", origin)
	case sub == "origins" && len(rest) == 0:
		origins, err := t.nav.SavedOrigins()
		if err != nil {
			return err
		}
		for _, o := range origins {
			fmt.Fprintln(t.out, o)
		}
	case sub == "restore" && len(rest) == 0:
		n, err := t.nav.RestoreLocalStorage(ctx, t.session)
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "restored %d items\n", n)
	default:
		return usageError(usage)
	}
	return nil
}

func (t *TerminalInterface) cmdAlert(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("alert accept|dismiss")
	}
	var (
		handled bool
		err     error
	)
	switch args[0] {
	case "accept":
		handled, err = t.nav.AcceptAlert(ctx, t.session)
	case "dismiss":
		handled, err = t.nav.DismissAlert(ctx, t.session)
	default:
		return usageError("alert accept|dismiss")
	}
	if err != nil {
		return err
	}
	if !handled {
		fmt.Fprintln(t.out, "no alert")
	}
	return nil
}

func (t *TerminalInterface) cmdImage(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("image find|click|move <path>...")
	}
	paths := args[1:]

	var (
		ok  bool
		err error
	)
	switch args[0] {
	case "find":
		var p entities.Point
		p, ok, err = t.nav.FindImage(ctx, paths)
		if err == nil && ok {
			fmt.Fprintf(t.out, "found at %s\n", p)
			return nil
		}
	case "click":
		ok, err = t.nav.ClickImage(ctx, paths)
	case "move":
		ok, err = t.nav.MoveToImage(ctx, paths)
	default:
		return usageError("image find|click|move <path>...")
	}
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(t.out, "not found")
	}
	return nil
}

func (t *TerminalInterface) printMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(t.out, "%s: %s\n", k, m[k])
	}
}

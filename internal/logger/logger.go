package logger

// Messages look like clang's diagnostics: the position, the kind, the text,
// and then the line of source code with the range underlined. Messages are
// printed to stderr as they are added so a long run shows them right away.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg

	// Per-message-ID log level changes requested by the user. A message whose
	// ID is mapped to "LevelSilent" is dropped before it reaches "AddMsg".
	Overrides map[MsgID]LogLevel
}

type LogLevel int8

const (
	LevelNone LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSilent
)

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		panic("Internal error")
	}
}

type Msg struct {
	ID       MsgID
	Kind     MsgKind
	Text     string
	Location *MsgLocation
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Loc struct {
	// This is the 0-based index of this location from the start of the file, in bytes
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

type Source struct {
	// This is used for error messages and cache keys. It always uses forward
	// slashes.
	PrettyPath string

	Contents string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start:r.End()]
}

// Returns the range of the last "op" before "loc", or an empty range at
// "loc" if there isn't one
func (s *Source) RangeOfOperatorBefore(loc Loc, op string) Range {
	if index := strings.LastIndex(s.Contents[:loc.Start], op); index >= 0 {
		return Range{Loc: Loc{Start: int32(index)}, Len: int32(len(op))}
	}
	return Range{Loc: loc}
}

// Returns the range of the identifier starting at "loc", or an empty range if
// there is no identifier there.
func (s *Source) RangeOfIdentifier(loc Loc) Range {
	text := s.Contents[loc.Start:]
	n := 0
	for n < len(text) {
		c := text[n]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '_' && c != '$' && (n == 0 || c < '0' || c > '9') {
			break
		}
		n++
	}
	return Range{Loc: loc, Len: int32(n)}
}

// Messages without a location come first. The rest are ordered by position.
func msgLess(a Msg, b Msg) bool {
	la, lb := a.Location, b.Location
	if (la == nil) != (lb == nil) {
		return la == nil
	}
	if la != nil {
		switch {
		case la.File != lb.File:
			return la.File < lb.File
		case la.Line != lb.Line:
			return la.Line < lb.Line
		case la.Column != lb.Column:
			return la.Column < lb.Column
		case la.Length != lb.Length:
			return la.Length < lb.Length
		}
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Text < b.Text
}

// The messages of one log. Transforms of separate files can share a log so
// this is safe to use from multiple goroutines.
type msgList struct {
	mutex    sync.Mutex
	msgs     []Msg
	errors   int
	warnings int
}

func (list *msgList) add(msg Msg) {
	list.msgs = append(list.msgs, msg)
	switch msg.Kind {
	case Error:
		list.errors++
	case Warning:
		list.warnings++
	}
}

func (list *msgList) sorted() []Msg {
	sort.SliceStable(list.msgs, func(i int, j int) bool {
		return msgLess(list.msgs[i], list.msgs[j])
	})
	return list.msgs
}

func (list *msgList) hasErrors() bool {
	list.mutex.Lock()
	defer list.mutex.Unlock()
	return list.errors > 0
}

func countOf(noun string, count int) string {
	if count == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

// "2 warnings and 1 error"
func (list *msgList) summary() string {
	switch {
	case list.errors == 0:
		return countOf("warning", list.warnings)
	case list.warnings == 0:
		return countOf("error", list.errors)
	default:
		return countOf("warning", list.warnings) + " and " + countOf("error", list.errors)
	}
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
}

func NewStderrLog(options OutputOptions) Log {
	list := &msgList{}
	terminalInfo := GetTerminalInfo(os.Stderr)
	limitWasHit := false

	switch options.Color {
	case ColorNever:
		terminalInfo.UseColorEscapes = false
	case ColorAlways:
		terminalInfo.UseColorEscapes = SupportsColorEscapes
	}

	// Levels are ordered so that a message is shown when its level is at
	// least the requested one
	levelOf := map[MsgKind]LogLevel{Error: LevelError, Warning: LevelWarning, Info: LevelInfo}

	return Log{
		Overrides: options.Overrides,

		AddMsg: func(msg Msg) {
			list.mutex.Lock()
			defer list.mutex.Unlock()
			list.add(msg)

			// Stop printing once the limit is reached so the terminal isn't flooded
			if limitWasHit {
				return
			}
			if options.LogLevel <= levelOf[msg.Kind] {
				os.Stderr.WriteString(msg.String(options, terminalInfo))
			}
			if options.ErrorLimit != 0 && list.errors >= options.ErrorLimit {
				limitWasHit = true
				if options.LogLevel <= LevelError {
					fmt.Fprintf(os.Stderr, "%s reached (disable error limit with --error-limit=0)\n", list.summary())
				}
			}
		},

		HasErrors: list.hasErrors,

		Done: func() []Msg {
			list.mutex.Lock()
			defer list.mutex.Unlock()
			if !limitWasHit && options.LogLevel <= LevelInfo && (list.errors != 0 || list.warnings != 0) {
				fmt.Fprintf(os.Stderr, "%s\n", list.summary())
			}
			return list.sorted()
		},
	}
}

// Collects messages without printing them
func NewDeferLog() Log {
	list := &msgList{}

	return Log{
		AddMsg: func(msg Msg) {
			list.mutex.Lock()
			defer list.mutex.Unlock()
			list.add(msg)
		},

		HasErrors: list.hasErrors,

		Done: func() []Msg {
			list.mutex.Lock()
			defer list.mutex.Unlock()
			return list.sorted()
		},
	}
}

// Reports an error that happened before the command-line arguments could be
// parsed. The color and log level flags are still respected.
func PrintErrorToStderr(osArgs []string, text string) {
	options := OutputOptions{IncludeSource: true}
	for _, arg := range osArgs {
		switch arg {
		case "--color=false":
			options.Color = ColorNever
		case "--color=true":
			options.Color = ColorAlways
		case "--log-level=info":
			options.LogLevel = LevelInfo
		case "--log-level=warning":
			options.LogLevel = LevelWarning
		case "--log-level=error":
			options.LogLevel = LevelError
		case "--log-level=silent":
			options.LogLevel = LevelSilent
		}
	}

	log := NewStderrLog(options)
	log.AddMsg(Msg{Kind: Error, Text: text})
	log.Done()
}

type Colors struct {
	Reset     string
	Bold      string
	Dim       string
	Red       string
	Green     string
	Blue      string
	Magenta   string
	ResetBold string
}

var TerminalColors = Colors{
	Reset:     "\033[0m",
	Bold:      "\033[1m",
	Dim:       "\033[37m",
	Red:       "\033[31m",
	Green:     "\033[32m",
	Blue:      "\033[34m",
	Magenta:   "\033[35m",
	ResetBold: "\033[0;1m",
}

type UseColor uint8

const (
	ColorIfTerminal UseColor = iota
	ColorNever
	ColorAlways
)

type OutputOptions struct {
	IncludeSource bool
	ErrorLimit    int
	Color         UseColor
	LogLevel      LogLevel
	Overrides     map[MsgID]LogLevel
}

func (msg Msg) String(options OutputOptions, terminalInfo TerminalInfo) string {
	colors := Colors{}
	if terminalInfo.UseColorEscapes {
		colors = TerminalColors
	}

	kindColor := colors.Red
	switch msg.Kind {
	case Warning:
		kindColor = colors.Magenta
	case Info:
		kindColor = colors.Blue
	}

	sb := strings.Builder{}
	sb.WriteString(colors.Bold)
	if loc := msg.Location; loc != nil {
		if options.IncludeSource {
			fmt.Fprintf(&sb, "%s:%d:%d: ", loc.File, loc.Line, loc.Column)
		} else {
			fmt.Fprintf(&sb, "%s: ", loc.File)
		}
	}
	fmt.Fprintf(&sb, "%s%s: %s%s%s\n", kindColor, msg.Kind.String(), colors.ResetBold, msg.Text, colors.Reset)

	if msg.Location != nil && options.IncludeSource {
		e := makeExcerpt(*msg.Location, terminalInfo.Width)
		fmt.Fprintf(&sb, "%s%s%s%s%s\n", e.before, colors.Green, e.marked, colors.Reset, e.after)
		fmt.Fprintf(&sb, "%s%s%s%s%s\n", colors.Green, strings.Repeat(" ", len(e.before)), e.marker, colors.Reset, e.rest)
	}
	return sb.String()
}

func lineAndColumn(contents string, offset int) (line int, column int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}

	// "\r\n" counts as one line break
	var prev rune
	for i, c := range contents[:offset] {
		switch c {
		case '\n':
			if prev != '\r' {
				line++
			}
			lineStart = i + 1
		case '\r', '\u2028', '\u2029':
			line++
			lineStart = i + len(string(c))
		}
		prev = c
	}

	lineEnd = len(contents)
	if i := strings.IndexAny(contents[offset:], "\r\n\u2028\u2029"); i != -1 {
		lineEnd = offset + i
	}
	return line, offset - lineStart, lineStart, lineEnd
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}
	line, column, lineStart, lineEnd := lineAndColumn(source.Contents, int(r.Loc.Start))
	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     line + 1,
		Column:   column,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

// The source line shown under a message. The underlined part of the line is
// "marked" and the text of any following lines is "rest".
type excerpt struct {
	before string
	marked string
	after  string
	marker string
	rest   string
}

const spacesPerTab = 2

func makeExcerpt(loc MsgLocation, width int) excerpt {
	firstLine := loc.LineText
	rest := ""
	if i := strings.IndexAny(firstLine, "\r\n\u2028\u2029"); i != -1 {
		firstLine, rest = firstLine[:i], firstLine[i:]
	}

	column := clamp(loc.Column, 0, len(firstLine))
	length := clamp(loc.Length, 0, len(firstLine)-column)
	text := expandTabs(firstLine)
	start := len(expandTabs(firstLine[:column]))
	end := len(expandTabs(firstLine[:column+length]))

	if width < 1 {
		width = 80
	}
	if column == len(firstLine) {
		// Leave room for a marker after the end of the line
		width--
	}

	// Show the part of a long line around the marker, with "..." where the
	// line was cut off
	if len(text) > width {
		offset := min((start+end-width)/2, start-width/5)
		offset = clamp(offset, 0, len(text)-width)
		cut := text[offset : offset+width]
		start = clamp(start-offset, 0, len(cut))
		end = clamp(end-offset, start, len(cut))
		if offset > 0 && len(cut) > 3 {
			cut = "..." + cut[3:]
			start = max(start, 3)
			end = max(end, start)
		}
		if offset+width < len(text) && len(cut) > 3 {
			cut = cut[:len(cut)-3] + "..."
			end = clamp(end, start, len(cut)-3)
		}
		text = cut
	}

	start = min(start, len(text))
	end = clamp(end, start, len(text))
	marker := "^"
	if end-start > 1 {
		marker = strings.Repeat("~", end-start)
	}
	return excerpt{
		before: text[:start],
		marked: text[start:end],
		after:  text[end:],
		marker: marker,
		rest:   rest,
	}
}

func clamp(value int, low int, high int) int {
	if value > high {
		value = high
	}
	if value < low {
		value = low
	}
	return value
}

func expandTabs(text string) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	sb := strings.Builder{}
	column := 0
	for _, c := range text {
		if c != '\t' {
			sb.WriteRune(c)
			column++
			continue
		}
		spaces := spacesPerTab - column%spacesPerTab
		sb.WriteString(strings.Repeat(" ", spaces))
		column += spaces
	}
	return sb.String()
}

func (log Log) AddError(source *Source, loc Loc, text string) {
	log.AddRangeError(source, Range{Loc: loc}, text)
}

func (log Log) AddRangeError(source *Source, r Range, text string) {
	log.AddMsg(Msg{
		Kind:     Error,
		Text:     text,
		Location: LocationOrNil(source, r),
	})
}

// Warnings always carry an ID so the user can change their level. Errors
// never do because turning an error into a non-error would let a broken
// transform succeed.
func (log Log) AddIDWithRange(id MsgID, source *Source, r Range, text string) {
	kind := Warning
	if override, ok := log.Overrides[id]; ok {
		switch override {
		case LevelError:
			kind = Error
		case LevelWarning:
			kind = Warning
		case LevelInfo:
			kind = Info
		default:
			return
		}
	}

	log.AddMsg(Msg{
		ID:       id,
		Kind:     kind,
		Text:     text,
		Location: LocationOrNil(source, r),
	})
}

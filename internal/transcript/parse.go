package transcript

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/edgard/chatstat/internal/errors"
)

// senderDelimiter separates the author from the body on an entry line.
const senderDelimiter = ": "

// entry accumulates one logical message while its continuation lines are read.
type entry struct {
	line      int
	timestamp time.Time
	sender    string
	system    bool
	body      strings.Builder
}

func (e *entry) record() Record {
	return newRecord(e.line, e.timestamp, e.sender, e.body.String(), e.system)
}

// Parse converts export text into records in source order.
//
// Lines are classified with Classify. Entry lines start a record; continuation
// lines are appended to the current record's body with a newline. Blank lines
// before the first entry are ignored, anything else there is an error. An
// entry whose timestamp does not match TimestampLayout aborts the whole parse.
func Parse(text string) (Records, error) {
	text = strings.TrimRight(text, "\n")
	lines := strings.Split(text, "\n")

	records := make(Records, 0, len(lines))
	var current *entry

	for i, line := range lines {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")

		if Classify(line) == KindContinuation {
			if current == nil {
				if strings.TrimSpace(line) == "" {
					continue
				}
				return nil, errs.NewParseError(lineNo, "text before the first chat entry", nil)
			}
			current.body.WriteByte('\n')
			current.body.WriteString(line)
			continue
		}

		if current != nil {
			records = append(records, current.record())
		}

		next, err := parseEntryLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		current = next
	}

	if current != nil {
		records = append(records, current.record())
	}

	if len(records) == 0 {
		return nil, errs.NewParseError(0, "no chat entries found", nil)
	}

	return records, nil
}

func parseEntryLine(lineNo int, line string) (*entry, error) {
	m := entryAnchor.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, errs.NewParseError(lineNo, "line does not start a chat entry", nil)
	}

	stamp := line[m[2]:m[3]] + ", " + line[m[4]:m[5]]
	ts, err := time.ParseInLocation(TimestampLayout, stamp, time.UTC)
	if err != nil {
		return nil, errs.NewParseError(lineNo, fmt.Sprintf("invalid timestamp %q", stamp), err)
	}

	e := &entry{line: lineNo, timestamp: ts}
	sender, body, ok := splitSender(line[m[1]:])
	if ok {
		e.sender = sender
		e.body.WriteString(body)
	} else {
		e.sender = SystemSender
		e.system = true
		e.body.WriteString(line[m[1]:])
	}

	return e, nil
}

// splitSender splits "Sender: body" on the first delimiter. A line ending in
// a bare colon is a sender with an empty body. Anything else is a system line.
func splitSender(rest string) (sender, body string, ok bool) {
	if idx := strings.Index(rest, senderDelimiter); idx > 0 {
		return rest[:idx], rest[idx+len(senderDelimiter):], true
	}
	if len(rest) > 1 && strings.HasSuffix(rest, ":") && strings.Count(rest, ":") == 1 {
		return rest[:len(rest)-1], "", true
	}
	return "", "", false
}

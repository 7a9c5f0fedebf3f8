// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

const termMsgJust = 40

func (h *TerminalHandler) format(buf []byte, r slog.Record, usecolor bool) []byte {
	msg := escapeMessage(r.Message)
	var color = ""
	if usecolor {
		switch r.Level {
		case LevelCrit:
			color = "\x1b[35m"
		case slog.LevelError:
			color = "\x1b[31m"
		case slog.LevelWarn:
			color = "\x1b[33m"
		case slog.LevelInfo:
			color = "\x1b[32m"
		case slog.LevelDebug:
			color = "\x1b[36m"
		case LevelTrace:
			color = "\x1b[34m"
		}
	}
	b := buf[:0]
	if color != "" {
		b = append(b, color...)
		b = append(b, LevelAlignedString(r.Level)...)
		b = append(b, "\x1b[0m"...)
	} else {
		b = append(b, LevelAlignedString(r.Level)...)
	}
	b = append(b, '[')
	b = r.Time.AppendFormat(b, termTimeFormat)
	b = append(b, "] "...)
	b = append(b, msg...)

	// try to justify the log output for short messages
	if n := utf8.RuneCountInString(msg); (r.NumAttrs()+len(h.attrs)) > 0 && n < termMsgJust {
		b = append(b, strings.Repeat(" ", termMsgJust-n)...)
	}
	for _, attr := range h.attrs {
		b = h.appendAttr(b, attr, color)
	}
	r.Attrs(func(attr slog.Attr) bool {
		b = h.appendAttr(b, attr, color)
		return true
	})
	return append(b, '\n')
}

func (h *TerminalHandler) appendAttr(b []byte, attr slog.Attr, color string) []byte {
	b = append(b, ' ')
	if color != "" {
		b = append(b, color...)
		b = append(b, attr.Key...)
		b = append(b, "\x1b[0m="...)
	} else {
		b = append(b, attr.Key...)
		b = append(b, '=')
	}
	val := formatValue(attr.Value)
	b = append(b, val...)

	// pad values of the same key to the widest one seen so far
	padding := h.fieldPadding[attr.Key]
	if length := utf8.RuneCountInString(val); padding < length {
		h.fieldPadding[attr.Key] = length
	} else if length < padding {
		b = append(b, strings.Repeat(" ", padding-length)...)
	}
	return b
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return escapeString(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	}
	switch x := v.Any().(type) {
	case *big.Int:
		if x == nil {
			return "<nil>"
		}
		return x.String()
	case *uint256.Int:
		if x == nil {
			return "<nil>"
		}
		return x.Dec()
	case error:
		if x == nil {
			return "<nil>"
		}
		return escapeString(x.Error())
	case fmt.Stringer:
		return escapeString(x.String())
	}
	return escapeString(fmt.Sprintf("%+v", v.Any()))
}

func escapeString(s string) string {
	if needsQuoting(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuoting(s string) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

// escapeMessage keeps multi-line messages on a single line.
func escapeMessage(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(s)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/quake-console/internal/output"
)

// Scanner is implemented by argument types that read themselves from the
// command line. A returned error is reported as a syntax error.
type Scanner interface {
	ScanConsole(in *Input) error
}

// DynamicVariable is a string argument that takes the rest of the line,
// leading whitespace removed. It must be non-empty.
type DynamicVariable string

var (
	logType             = reflect.TypeOf((*output.Log)(nil)).Elem()
	errorType           = reflect.TypeOf((*error)(nil)).Elem()
	scannerType         = reflect.TypeOf((*Scanner)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	dynamicType         = reflect.TypeOf(DynamicVariable(""))
	durationType        = reflect.TypeOf(time.Duration(0))
)

// =============================================================================
// COMMANDS
// =============================================================================

// BindFunc binds a raw handler under name. An existing command with the
// same name is replaced. A non-empty help sets the help topic.
func (c *Console) BindFunc(name string, h Handler, help string) {
	c.commands[name] = h
	if help != "" {
		c.SetHelpTopic(name, help)
	}
}

// BindCommand binds an ordinary function under name.
//
// fn may take any number of parameters of these types, parsed from the
// command line in order:
//   - string, bool, signed and unsigned integers, floats, time.Duration
//   - DynamicVariable (the rest of the line)
//   - types whose pointer implements Scanner or encoding.TextUnmarshaler
//
// A parameter of type output.Log receives the command's output sink and
// consumes no input. fn may return nothing or a single error, which is
// reported to the output.
//
// When any argument fails to parse, one syntax error is reported and fn is
// not called. Method values bind the same way as functions.
func (c *Console) BindCommand(name string, fn any, help string) error {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return fmt.Errorf("bind %s: expected a function, got %T", name, fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return fmt.Errorf("bind %s: variadic functions are not supported", name)
	}
	if ft.NumOut() > 1 || (ft.NumOut() == 1 && ft.Out(0) != errorType) {
		return fmt.Errorf("bind %s: function may only return an error", name)
	}

	parsers := make([]argParser, ft.NumIn())
	for i := range parsers {
		t := ft.In(i)
		if t == logType {
			continue
		}
		p, err := parserFor(t)
		if err != nil {
			return fmt.Errorf("bind %s: parameter %d: %w", name, i+1, err)
		}
		parsers[i] = p
	}

	c.BindFunc(name, func(in *Input, out output.Log) {
		args := make([]reflect.Value, len(parsers))
		for i, parse := range parsers {
			if parse == nil {
				args[i] = reflect.ValueOf(&out).Elem()
				continue
			}
			v := reflect.New(ft.In(i)).Elem()
			parse(in, v)
			args[i] = v
		}
		if in.Failed() {
			in.Clear()
			c.report(out, &Error{Kind: SyntaxError})
			return
		}
		results := fv.Call(args)
		if len(results) == 1 && !results[0].IsNil() {
			err := results[0].Interface().(error)
			c.report(out, &Error{Kind: CommandFailed, Subject: name, Err: err})
		}
	}, help)
	return nil
}

// MustBindCommand is BindCommand for functions known to be valid.
// It panics on error.
func (c *Console) MustBindCommand(name string, fn any, help string) {
	if err := c.BindCommand(name, fn, help); err != nil {
		panic(err)
	}
}

// =============================================================================
// VARIABLES
// =============================================================================

// BindCVar binds the variable ptr points to under name. The value type
// must be one BindCommand accepts as a parameter.
//
// set parses into a temporary and assigns only on success, so a bad value
// leaves the variable unchanged.
func (c *Console) BindCVar(name string, ptr any, help string) error {
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return fmt.Errorf("bind variable %s: expected a non-nil pointer, got %T", name, ptr)
	}
	elem := pv.Elem()
	parse, err := parserFor(elem.Type())
	if err != nil {
		return fmt.Errorf("bind variable %s: %w", name, err)
	}

	delete(c.dynIndex, name)
	c.readers[name] = func(in *Input, out output.Log) {
		tmp := reflect.New(elem.Type()).Elem()
		parse(in, tmp)
		if in.Failed() {
			in.Clear()
			c.report(out, &Error{Kind: SyntaxError, Subject: name})
			return
		}
		elem.Set(tmp)
	}
	c.printers[name] = func(w io.Writer) {
		io.WriteString(w, formatValue(elem))
	}
	if help != "" {
		c.SetHelpTopic(name, help)
	}
	return nil
}

// BindDynamicCVar declares a string variable owned by the console.
// Declaring an existing dynamic variable again replaces its value.
func (c *Console) BindDynamicCVar(name, value, help string) {
	slot, ok := c.dynIndex[name]
	if ok {
		c.dynamic[slot] = value
	} else {
		slot = len(c.dynamic)
		c.dynamic = append(c.dynamic, value)
		c.dynIndex[name] = slot
	}

	c.readers[name] = func(in *Input, out output.Log) {
		v, ok := readDynamic(in)
		if !ok {
			in.Clear()
			c.report(out, &Error{Kind: SyntaxError, Subject: name})
			return
		}
		c.dynamic[slot] = v
	}
	c.printers[name] = func(w io.Writer) {
		io.WriteString(w, c.dynamic[slot])
	}
	if help != "" {
		c.SetHelpTopic(name, help)
	}
}

// =============================================================================
// ARGUMENT PARSERS
// =============================================================================

// argParser reads one value from in into v. On failure it leaves in
// failed and unreads any token it could not use.
type argParser func(in *Input, v reflect.Value)

func parserFor(t reflect.Type) (argParser, error) {
	switch {
	case t == dynamicType:
		return func(in *Input, v reflect.Value) {
			if s, ok := readDynamic(in); ok {
				v.SetString(s)
			}
		}, nil

	case reflect.PointerTo(t).Implements(scannerType):
		return func(in *Input, v reflect.Value) {
			if in.Failed() {
				return
			}
			if err := v.Addr().Interface().(Scanner).ScanConsole(in); err != nil {
				in.Fail()
			}
		}, nil

	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return tokenParser(func(tok string, v reflect.Value) error {
			return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(tok))
		}), nil

	case t == durationType:
		return tokenParser(func(tok string, v reflect.Value) error {
			d, err := time.ParseDuration(tok)
			v.SetInt(int64(d))
			return err
		}), nil
	}

	switch t.Kind() {
	case reflect.String:
		return tokenParser(func(tok string, v reflect.Value) error {
			v.SetString(tok)
			return nil
		}), nil

	case reflect.Bool:
		return tokenParser(func(tok string, v reflect.Value) error {
			b, err := strconv.ParseBool(tok)
			v.SetBool(b)
			return err
		}), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tokenParser(func(tok string, v reflect.Value) error {
			n, err := strconv.ParseInt(tok, 10, t.Bits())
			v.SetInt(n)
			return err
		}), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return tokenParser(func(tok string, v reflect.Value) error {
			n, err := strconv.ParseUint(strings.TrimPrefix(tok, "+"), 10, t.Bits())
			v.SetUint(n)
			return err
		}), nil

	case reflect.Float32, reflect.Float64:
		return tokenParser(func(tok string, v reflect.Value) error {
			f, err := strconv.ParseFloat(tok, t.Bits())
			v.SetFloat(f)
			return err
		}), nil
	}

	return nil, fmt.Errorf("unsupported argument type %s", t)
}

// tokenParser adapts a conversion of one whitespace delimited word. A word
// that fails to convert is pushed back unconsumed.
func tokenParser(convert func(tok string, v reflect.Value) error) argParser {
	return func(in *Input, v reflect.Value) {
		tok, ok := in.Token()
		if !ok {
			return
		}
		if err := convert(tok, v); err != nil {
			in.Unread(tok)
			in.Fail()
		}
	}
}

func readDynamic(in *Input) (string, bool) {
	rest, ok := in.RestOfLine()
	if !ok {
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t\v\f")
	if rest == "" {
		in.Fail()
		return "", false
	}
	return rest, true
}

// formatValue prints v the way echo shows it.
func formatValue(v reflect.Value) string {
	if v.CanAddr() {
		switch m := v.Addr().Interface().(type) {
		case encoding.TextMarshaler:
			if b, err := m.MarshalText(); err == nil {
				return string(b)
			}
		case fmt.Stringer:
			return m.String()
		}
	}
	return fmt.Sprint(v.Interface())
}

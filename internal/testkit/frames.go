package testkit

import (
	"fmt"
	"strconv"
	"strings"
)

// CheckFrameBalance walks generated ARM assembly and verifies that sp is
// restored on every path: each routine returns (POP {..., pc}) with exactly
// the bytes it pushed, and every local label is reached at one stack depth.
// Calls to exit and to the runtime error handler end a path.
func CheckFrameBalance(asm string) error {
	return walkFrames(asm, false)
}

// CheckCallAlignment is CheckFrameBalance that also requires every call
// (BL and BL<cond>) to be made with sp 8-byte aligned, given that each
// routine is entered with an aligned sp.
func CheckCallAlignment(asm string) error {
	return walkFrames(asm, true)
}

func walkFrames(asm string, aligned bool) error {
	c := frameChecker{labels: make(map[string]int), aligned: aligned}
	inText := false
	for i, raw := range strings.Split(asm, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case line == ".data":
			inText = false
			continue
		case line == ".text":
			inText = true
			continue
		case !inText:
			continue
		}
		if err := c.step(line); err != nil {
			return fmt.Errorf("line %d %q: %w", i+1, line, err)
		}
	}
	return c.endRoutine()
}

type frameChecker struct {
	routine   string
	depth     int
	reachable bool
	labels    map[string]int // depth on entry to each local label
	aligned   bool
}

func isLocalLabel(name string) bool {
	return len(name) > 1 && name[0] == 'L' && strings.Trim(name[1:], "0123456789") == ""
}

func (c *frameChecker) endRoutine() error {
	if c.routine != "" && c.reachable {
		return fmt.Errorf("%s falls off its end at depth %d", c.routine, c.depth)
	}
	return nil
}

func (c *frameChecker) step(line string) error {
	if name, ok := strings.CutSuffix(line, ":"); ok {
		return c.label(name)
	}
	if !c.reachable || strings.HasPrefix(line, ".") {
		return nil
	}
	op, args, _ := strings.Cut(line, " ")
	if c.aligned && isCall(op) && c.depth%8 != 0 {
		return fmt.Errorf("call at depth %d leaves sp unaligned", c.depth)
	}
	switch {
	case op == "PUSH":
		c.depth += 4 * countRegs(args)
	case op == "POP":
		n := 4 * countRegs(args)
		if strings.Contains(args, "pc") {
			if c.depth != n {
				return fmt.Errorf("return with %d bytes pushed, popping %d", c.depth, n)
			}
			c.depth = 0
			c.reachable = false
			return nil
		}
		c.depth -= n
	case (op == "SUB" || op == "ADD") && strings.HasPrefix(args, "sp, sp, #"):
		n, err := strconv.Atoi(strings.TrimPrefix(args, "sp, sp, #"))
		if err != nil {
			return err
		}
		if op == "SUB" {
			c.depth += n
		} else {
			c.depth -= n
		}
	case (op == "STR" || op == "STRB") && strings.HasSuffix(args, "]!"):
		_, off, _ := strings.Cut(args, "[sp, #-")
		n, err := strconv.Atoi(strings.TrimSuffix(off, "]!"))
		if err != nil {
			return err
		}
		c.depth += n
	case isBranch(op):
		target := strings.TrimSpace(args)
		if !isLocalLabel(target) {
			// хвостовой переход в обработчик ошибки
			if op == "B" {
				c.reachable = false
			}
			return nil
		}
		if err := c.arrive(target); err != nil {
			return err
		}
		if op == "B" {
			c.reachable = false
		}
	case op == "BL" && (args == "exit" || args == "p_throw_runtime_error"):
		c.reachable = false
	}
	if c.depth < 0 {
		return fmt.Errorf("stack depth below routine entry: %d", c.depth)
	}
	return nil
}

func (c *frameChecker) label(name string) error {
	if !isLocalLabel(name) {
		if err := c.endRoutine(); err != nil {
			return err
		}
		c.routine, c.depth, c.reachable = name, 0, true
		return nil
	}
	if c.reachable {
		return c.arrive(name)
	}
	if d, ok := c.labels[name]; ok {
		c.depth, c.reachable = d, true
	}
	return nil
}

// arrive records or compares the depth at which control reaches a label.
func (c *frameChecker) arrive(name string) error {
	if d, ok := c.labels[name]; ok && d != c.depth {
		return fmt.Errorf("label %s reached at depth %d and %d", name, d, c.depth)
	}
	c.labels[name] = c.depth
	return nil
}

func countRegs(list string) int {
	list = strings.Trim(strings.TrimSpace(list), "{}")
	if list == "" {
		return 0
	}
	return strings.Count(list, ",") + 1
}

var conds = map[string]bool{
	"EQ": true, "NE": true, "CS": true, "CC": true, "MI": true, "PL": true,
	"VS": true, "VC": true, "HI": true, "LS": true, "GE": true, "LT": true,
	"GT": true, "LE": true, "AL": true, "HS": true, "LO": true,
}

// isBranch matches B and B<cond>; BL<cond> is a call.
func isBranch(op string) bool {
	return op == "B" || (len(op) == 3 && op[0] == 'B' && conds[op[1:]])
}

// isCall matches BL and BL<cond>.
func isCall(op string) bool {
	return op == "BL" || (len(op) == 4 && op[:2] == "BL" && conds[op[2:]])
}

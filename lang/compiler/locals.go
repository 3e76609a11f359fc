package compiler

import "github.com/loxvm/loxvm/lang/opcode"

func (p *parser) beginScope() { p.cur.scopeDepth++ }

// endScope pops every local declared in the scope just left. Runs of plain
// pops are coalesced into a single POPN; a captured local breaks the run,
// since it must be hoisted to the heap with CLOSE_UPVALUE before anything
// beneath it is dropped.
func (p *parser) endScope() {
	p.cur.scopeDepth--

	c := p.cur
	run := 0
	flush := func() {
		switch run {
		case 0:
		case 1:
			p.emitOp(opcode.POP)
		default:
			p.emitOpByte(opcode.POPN, byte(run))
		}
		run = 0
	}
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		last := c.locals[len(c.locals)-1]
		if last.isCaptured {
			flush()
			p.emitOp(opcode.CLOSE_UPVALUE)
		} else {
			run++
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
	flush()
}

// declareVariable registers the variable named by the just-consumed
// identifier token in the current scope. Globals are not declared here:
// they are late-bound by name, so this is a no-op at scope depth 0.
func (p *parser) declareVariable(name string) {
	if p.cur.scopeDepth == 0 {
		return
	}
	c := p.cur
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *parser) addLocal(name string) {
	if len(p.cur.locals) >= maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.cur.locals = append(p.cur.locals, local{name: name, depth: -1})
}

// markInitialized marks the most recently declared local (or, at the top
// level of a function body, the function's own binding before recursion)
// as ready for use.
func (p *parser) markInitialized() {
	if p.cur.scopeDepth == 0 {
		return
	}
	p.cur.locals[len(p.cur.locals)-1].depth = p.cur.scopeDepth
}

// resolveLocal looks up name in c's own locals, innermost first, reporting
// a compile error if it is found but not yet initialized (the `var a = a;`
// self-reference case).
func resolveLocal(p *parser, c *Compiler, name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue walks the Compiler chain outward looking for name as a
// local of some enclosing function. Each Compiler between the definition
// and the use gains (or reuses) an upvalueRef threading the capture
// through, and the defining local is flagged isCaptured so endScope knows
// to close it.
func resolveUpvalue(p *parser, c *Compiler, name string) int {
	if c.enclosing == nil {
		return -1
	}
	if local := resolveLocal(p, c.enclosing, name); local != -1 {
		c.enclosing.locals[local].isCaptured = true
		return addUpvalue(p, c, uint8(local), true)
	}
	if up := resolveUpvalue(p, c.enclosing, name); up != -1 {
		return addUpvalue(p, c, uint8(up), false)
	}
	return -1
}

func addUpvalue(p *parser, c *Compiler, index uint8, isLocal bool) int {
	for i, u := range c.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxLocals {
		p.error("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, upvalueRef{index: index, isLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

// Package arm generates 32-bit ARM assembly text from a validated program.
//
// Register contract: expression code places its value in the head of the
// register pool it is given (a subset of r4-r10) and may clobber any register
// of that pool plus the scratch register r11. Registers r0-r3 and lr are
// argument and link registers for runtime calls (bounds checks, division,
// malloc) and are clobbered freely; they are never part of a pool.
//
// Stack layout: every scope grows the stack by its footprint on entry and
// shrinks it on every exit path. The emitter tracks how many bytes were
// pushed since function entry and addresses each variable relative to sp
// from the depth recorded when its scope was entered.
package arm

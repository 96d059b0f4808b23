// Package filter implements the per-packet drop decision and the hook
// entry points that apply it.
//
// A Hook is invoked once per packet by the surrounding datapath. Each
// invocation reads the hook's threshold register, substitutes the hook's
// configured fallback when the register is unset, draws once from the
// injected random source, and returns Pass or Drop. Hooks keep no state
// between invocations beyond atomic counters; the register is the only
// shared state, and it is external to the hook.
package filter

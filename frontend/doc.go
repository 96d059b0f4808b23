// Package frontend wires the drop filter together: it parses hook
// configuration, resolves every hook's threshold register, installs the
// hook entry points, and can replay a packet capture through them.
//
// The binding between hooks and registers is deployment configuration,
// not code: hooks naming the same store share one register (one unified
// policy), hooks naming distinct stores get independent policies.
package frontend

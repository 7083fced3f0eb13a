// Package shell turns a raw input line into a Command.
//
// Processing happens in the following order, a small subset of
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
//
// 1. Lines that are empty or start with '#' are skipped before anything else
// happens to them.
//
// 2. Every "$$" in the line is replaced by the shell's process ID.
//
// 3. The line is broken into whitespace separated words. There are no quotes
// unless quote aware splitting was requested.
//
// 4. The words are parsed into a program, its arguments, optional input and
// output redirection and an optional trailing '&'.
package shell

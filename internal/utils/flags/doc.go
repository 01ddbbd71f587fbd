// Package flags provides pflag helpers shared by runcap commands.
//
// It currently registers yes/no style toggle flags whose bare form
// (--continue-on-error) enables the toggle while explicit values
// (--continue-on-error=no) remain available.
package flags

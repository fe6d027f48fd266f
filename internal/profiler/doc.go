// Package profiler measures the wall-clock time spent in selected methods of
// any capability and reports the accumulated totals.
//
// # Architecture
//
// A Profiler owns a clock, a State and the instant it was created. Wrap
// turns a delegate into a profiling wrapper of the same interface type. The
// wrapper is built by the capability's Bind function, which forwards every
// method to the delegate through an Interceptor. The Interceptor times the
// methods declared as profiled and passes every other call straight through.
//
// Go has no runtime proxies, so each capability supplies its wrapper type and
// a Capability descriptor listing the method names it forwards and the ones to
// time. Wrap validates the descriptor before returning, so a capability with
// nothing to profile is rejected when it is wrapped, not when it is first called.
//
// # Attribution
//
// Time is keyed by the concrete type of the delegate and the method name
// ("github.com/acme/pkg.Type#Method"). Two delegates of the same type share
// totals; different types never do.
//
// # Usage
//
//	p := profiler.New(clock.NewSystem())
//	parser, err := profiler.Wrap(p, crawler.ParserCapability(), crawler.NewHTMLParser())
//	...
//	err = p.WriteFile("profile.txt")
package profiler

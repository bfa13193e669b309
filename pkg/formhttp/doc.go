// Package formhttp serves live form sessions over HTTP.
//
// A Store keeps one form.Controller per session, all built from the same rule
// definitions, and serializes every access to it. Sessions that nobody has
// looked up for the idle timeout and that have no open stream are evicted.
//
// Handler exposes the sessions with chi. Field edits, whole-form validation
// and resets answer with the new state as JSON, or as datastar signal and
// element patches when the request comes from the datastar client. The
// stream endpoint keeps a server-sent event connection open and pushes the
// error state after every change, rendering each field's errors with an
// ErrorList fragment targeted at ErrorsID(key).
//
//	store, err := formhttp.NewStore(defs, formhttp.WithIdleTimeout(30*time.Minute))
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID, formhttp.RequestLogger(log))
//	r.Mount("/", formhttp.NewHandler(store, formhttp.WithLogger(log)).Routes())
//
// Client side validation state lives under the $form signal:
// $form.valid and $form.errors.<key> (a list of messages). Field values are
// top-level signals named after their keys, so a rule key must not be "form".
//
// A session whose rule predicate panics is marked faulted: the request gets a
// 500, later reads report it as not valid, and later changes answer 409.
package formhttp

//go:generate templ generate -f fragments.templ

package flate

import "errors"

// errNeedMore is an internal control-flow sentinel: every stage checks its
// own HasBits/HasBytes precondition before consuming, and on failure
// returns errNeedMore instead of threading a separate "ok" flag through
// every call. The top-level driver recognizes it and stops for the call
// without treating it as a decode error or advancing the latched error
// state — it is never returned from an exported method.
var errNeedMore = errors.New("flate: need more input")

package gzip

import "errors"

// errNeedMore is the internal "suspend, no error" signal the header state
// machine uses, mirroring flate's own sentinel.
var errNeedMore = errors.New("gzip: need more input")

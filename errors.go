// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

import "errors"

// ErrBusy indicates that an exclusive-access operation (Reset, Map) could
// not proceed because a producer or consumer handle is currently
// outstanding.
//
// ErrBusy is a control flow signal, not a failure. The caller should drop
// its outstanding handles and retry.
var ErrBusy = errors.New("rwsync: busy: a producer or consumer handle is outstanding")

// ErrInvalidHandle indicates that a producer handle could not be
// registered because another producer is already registered.
//
// Unlike ErrBusy, this is not expected to be retried: a caller requesting a
// second concurrent producer is a programming error.
var ErrInvalidHandle = errors.New("rwsync: invalid handle: a producer is already registered")

// IsBusy reports whether err indicates an exclusive-access claim failed
// because handles are outstanding.
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsInvalidHandle reports whether err indicates a handle failed to
// register.
func IsInvalidHandle(err error) bool {
	return errors.Is(err, ErrInvalidHandle)
}

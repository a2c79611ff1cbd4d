// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwsync

// pad is cache line padding to prevent false sharing between hot atomic
// fields that are updated by different goroutines.
type pad [64]byte

// padShort is padding to fill a cache line after a 4-byte field.
type padShort [64 - 4]byte

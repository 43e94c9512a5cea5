package service

import "time"

// EvictIdle exposes idle-key eviction to the external test package.
func (tb *TokenBucket) EvictIdle(cutoff time.Time) { tb.evictIdle(cutoff) }

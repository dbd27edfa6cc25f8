package global

import "sync"

// CsMain guards the chain and its block index. Readers such as the
// checkpoint queries take the read lock; loading and tip changes take the
// write lock.
var CsMain = new(sync.RWMutex)

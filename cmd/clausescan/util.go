package clausescan

import (
	"os"
	"path/filepath"
	"sync"
)

func serialized(fn func()) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
}

// auditRoot is the directory whose history a scan of root belongs to.
func auditRoot(root string) string {
	if st, err := os.Stat(root); err == nil && !st.IsDir() {
		return filepath.Dir(root)
	}
	return root
}

package usecase

import "fmt"

// guarded превращает панику в горутине errgroup в ошибку: middleware
// восстановления работает только в горутине запроса.
func guarded(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("storage call panicked: %v", r)
			}
		}()
		return fn()
	}
}

//go:build !darwin || !cgo

package secrets

// nativeKeychain returns nil: only darwin builds with cgo can reach the Security framework.
func nativeKeychain() native {
	return nil
}

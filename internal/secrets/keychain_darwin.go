//go:build darwin && cgo

package secrets

import (
	"errors"

	keychain "github.com/99designs/go-keychain"
)

// securityFramework binds native to the macOS Security framework.
type securityFramework struct{}

func nativeKeychain() native {
	return securityFramework{}
}

func genericPassword(service, account string) keychain.Item {
	item := keychain.NewItem()
	item.SetSecClass(keychain.SecClassGenericPassword)
	item.SetService(service)
	item.SetAccount(account)
	return item
}

func (securityFramework) add(service, account string, data []byte, sync bool) error {
	item := genericPassword(service, account)
	item.SetData(data)
	if sync {
		item.SetSynchronizable(keychain.SynchronizableYes)
	}
	return toStatus(keychain.AddItem(item))
}

func (securityFramework) update(service, account string, data []byte) error {
	query := genericPassword(service, account)
	query.SetSynchronizable(keychain.SynchronizableAny)

	attrs := keychain.NewItem()
	attrs.SetData(data)
	return toStatus(keychain.UpdateItem(query, attrs))
}

func (securityFramework) find(service, account string) ([]byte, error) {
	query := genericPassword(service, account)
	query.SetSynchronizable(keychain.SynchronizableAny)
	query.SetMatchLimit(keychain.MatchLimitOne)
	query.SetReturnData(true)

	results, err := keychain.QueryItem(query)
	if err != nil {
		return nil, toStatus(err)
	}
	// QueryItem reports errSecItemNotFound as an empty result.
	if len(results) == 0 {
		return nil, statusItemNotFound
	}
	return results[0].Data, nil
}

func (securityFramework) remove(service, account string) error {
	query := genericPassword(service, account)
	query.SetSynchronizable(keychain.SynchronizableAny)
	return toStatus(keychain.DeleteItem(query))
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var kerr keychain.Error
	if errors.As(err, &kerr) {
		return Status(kerr)
	}
	return err
}

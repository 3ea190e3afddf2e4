package navigator

import (
	"context"
	"fmt"

	"web_navigator/domain/entities"
)

const (
	localStorageGetScript    = `return window.localStorage.getItem(arguments[0]);`
	localStorageSetScript    = `window.localStorage.setItem(arguments[0], arguments[1]);`
	localStorageRemoveScript = `window.localStorage.removeItem(arguments[0]);`
	localStorageClearScript  = `window.localStorage.clear();`
	localStorageItemsScript  = `
		var items = {};
		for (var i = 0; i < window.localStorage.length; i++) {
			var key = window.localStorage.key(i);
			items[key] = window.localStorage.getItem(key);
		}
		return items;`
	originScript = `return window.location.origin;`
)

// LocalStorageGet - returns the value stored under key and whether it exists
func (n *Navigator) LocalStorageGet(ctx context.Context, sess *Session, key string) (string, bool, error) {
	res, err := n.ExecuteScript(ctx, sess, localStorageGetScript, key)
	if err != nil {
		return "", false, err
	}
	if res == nil {
		return "", false, nil
	}
	s, ok := res.(string)
	if !ok {
		return fmt.Sprint(res), true, nil
	}
	return s, true, nil
}

// LocalStorageSet - stores value under key
func (n *Navigator) LocalStorageSet(ctx context.Context, sess *Session, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty localStorage key", entities.ErrInvalidArgument)
	}
	_, err := n.ExecuteScript(ctx, sess, localStorageSetScript, key, value)
	return err
}

// LocalStorageRemove - deletes key
func (n *Navigator) LocalStorageRemove(ctx context.Context, sess *Session, key string) error {
	_, err := n.ExecuteScript(ctx, sess, localStorageRemoveScript, key)
	return err
}

// LocalStorageClear - deletes every key of the current origin
func (n *Navigator) LocalStorageClear(ctx context.Context, sess *Session) error {
	_, err := n.ExecuteScript(ctx, sess, localStorageClearScript)
	return err
}

// LocalStorageItems - returns every key/value pair of the current origin
func (n *Navigator) LocalStorageItems(ctx context.Context, sess *Session) (map[string]string, error) {
	res, err := n.ExecuteScript(ctx, sess, localStorageItemsScript)
	if err != nil {
		return nil, err
	}
	raw, ok := res.(map[string]any)
	if !ok && res != nil {
		return nil, fmt.Errorf("%w: unexpected localStorage snapshot type %T", entities.ErrBackend, res)
	}
	items := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			items[k] = s
			continue
		}
		items[k] = fmt.Sprint(v)
	}
	return items, nil
}

func (n *Navigator) origin(ctx context.Context, sess *Session) (string, error) {
	res, err := n.ExecuteScript(ctx, sess, originScript)
	if err != nil {
		return "", err
	}
	origin, ok := res.(string)
	if !ok || origin == "" || origin == "null" {
		return "", fmt.Errorf("%w: page has no origin", entities.ErrPreconditionFailed)
	}
	return origin, nil
}

// SaveLocalStorage - snapshots localStorage of the current origin into the
// configured store and returns the origin
func (n *Navigator) SaveLocalStorage(ctx context.Context, sess *Session) (string, error) {
	if n.store == nil {
		return "", fmt.Errorf("%w: no localStorage store configured", entities.ErrPreconditionFailed)
	}
	origin, err := n.origin(ctx, sess)
	if err != nil {
		return "", err
	}
	items, err := n.LocalStorageItems(ctx, sess)
	if err != nil {
		return "", err
	}
	if err := n.store.Save(origin, items); err != nil {
		return "", fmt.Errorf("save localStorage of %s: %w", origin, err)
	}
	n.logger.Infof("Saved %d localStorage items of %s", len(items), origin)
	return origin, nil
}

// RestoreLocalStorage - writes the saved snapshot of the current origin back
// into the page and returns the number of items restored
func (n *Navigator) RestoreLocalStorage(ctx context.Context, sess *Session) (int, error) {
	if n.store == nil {
		return 0, fmt.Errorf("%w: no localStorage store configured", entities.ErrPreconditionFailed)
	}
	origin, err := n.origin(ctx, sess)
	if err != nil {
		return 0, err
	}
	items, err := n.store.Load(origin)
	if err != nil {
		return 0, fmt.Errorf("load localStorage of %s: %w", origin, err)
	}
	for k, v := range items {
		if err := n.LocalStorageSet(ctx, sess, k, v); err != nil {
			return 0, err
		}
	}
	n.logger.Infof("Restored %d localStorage items of %s", len(items), origin)
	return len(items), nil
}

// SavedOrigins - lists origins that have a saved snapshot
func (n *Navigator) SavedOrigins() ([]string, error) {
	if n.store == nil {
		return nil, fmt.Errorf("%w: no localStorage store configured", entities.ErrPreconditionFailed)
	}
	return n.store.Origins()
}

package core

import (
	"KolDesk/internal/lib/sl"
	"fmt"
)

// CheckApiKey resolves an api key to its owner. The configured master
// key and previously seen keys short-circuit the database.
func (c *Core) CheckApiKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty api key")
	}
	if c.authKey != "" && key == c.authKey {
		return "admin", nil
	}
	if username, ok := c.keys[key]; ok {
		return username, nil
	}

	username, err := c.repo.CheckApiKey(key)
	if err != nil {
		return "", err
	}

	c.keys[key] = username
	return username, nil
}

// GenerateApiKey mints a key for a username and invalidates the cache
// entry for any key that username held before.
func (c *Core) GenerateApiKey(username string) (string, error) {
	key, err := c.repo.GenerateApiKey(username)
	if err != nil {
		return "", err
	}

	for k, name := range c.keys {
		if name == username {
			delete(c.keys, k)
		}
	}

	c.log.With(sl.Secret("key", key)).Info("api key generated")
	return key, nil
}

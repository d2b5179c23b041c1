package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Tokens хранит пару токенов текущей сессии.
type Tokens struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// TokenStore сохраняет токены между запусками клиента.
type TokenStore interface {
	Load() (Tokens, error)
	Save(tokens Tokens) error
	Clear() error
}

type MemoryStore struct {
	mu     sync.Mutex
	tokens Tokens
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (store *MemoryStore) Load() (Tokens, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.tokens, nil
}

func (store *MemoryStore) Save(tokens Tokens) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens = tokens
	return nil
}

func (store *MemoryStore) Clear() error {
	return store.Save(Tokens{})
}

// FileStore хранит токены в JSON файле, доступном только владельцу.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (store *FileStore) Load() (Tokens, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var tokens Tokens
	data, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tokens, nil
	}
	if err != nil {
		return tokens, fmt.Errorf("ошибка чтения файла токенов: %w", err)
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return Tokens{}, fmt.Errorf("ошибка разбора файла токенов: %w", err)
	}
	return tokens, nil
}

func (store *FileStore) Save(tokens Tokens) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("ошибка преобразования в json: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("не удалось создать каталог для токенов: %w", err)
	}

	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("ошибка записи файла токенов: %w", err)
	}
	if err := os.Rename(tmp, store.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ошибка записи файла токенов: %w", err)
	}
	return nil
}

func (store *FileStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("не удалось удалить файл токенов: %w", err)
	}
	return nil
}

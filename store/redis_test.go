package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/ZaguanLabs/transtree"
)

func TestRedis_Lookup_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{KeyPrefix: "test:"})

	mock.ExpectGet("test:es:translation:greeting").SetVal("hola")

	val, ok := s.Lookup(context.Background(), transtree.LookupRequest{
		Key:       "greeting",
		Locale:    "es",
		Namespace: "translation",
	})
	if !ok {
		t.Error("Expected a hit")
	}
	if val != "hola" {
		t.Errorf("Expected 'hola', got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Lookup_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{KeyPrefix: "test:"})

	mock.ExpectGet("test:es:translation:greeting").RedisNil()
	mock.ExpectGet("test:en:translation:greeting").RedisNil()

	val, ok := s.Lookup(context.Background(), transtree.LookupRequest{
		Key:       "greeting",
		Locale:    "es",
		Namespace: "translation",
	})
	if ok || val != "" {
		t.Errorf("Expected a miss, got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Lookup_LocaleFallback(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{KeyPrefix: "test:"})

	mock.ExpectGet("test:pt-BR:translation:greeting").RedisNil()
	mock.ExpectGet("test:pt:translation:greeting").SetVal("olá")

	val, ok := s.Lookup(context.Background(), transtree.LookupRequest{
		Key:       "greeting",
		Locale:    "pt-BR",
		Namespace: "translation",
	})
	if !ok || val != "olá" {
		t.Errorf("Expected the base-language entry, got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Lookup_PluralCandidates(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{KeyPrefix: "test:"})

	mock.ExpectGet("test:en:translation:items_other").RedisNil()
	mock.ExpectGet("test:en:translation:items").SetVal("{{count}} items")

	five := 5
	val, ok := s.Lookup(context.Background(), transtree.LookupRequest{
		Key:       "items",
		Locale:    "en",
		Namespace: "translation",
		Count:     &five,
	})
	if !ok || val != "{{count}} items" {
		t.Errorf("Expected the bare key after the plural candidate, got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{KeyPrefix: "test:", TTL: 3600})

	mock.ExpectSet("test:es:translation:greeting", "hola", 3600*time.Second).SetVal("OK")

	err := s.Save(context.Background(), "es", "translation", "greeting", "hola")
	if err != nil {
		t.Errorf("Save failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Save_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{KeyPrefix: "test:"})

	mock.ExpectSet("test:pt-BR:translation:greeting", "oi", 0).SetVal("OK")

	err := s.Save(context.Background(), "pt_br", "translation", "greeting", "oi")
	if err != nil {
		t.Errorf("Save failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_DefaultKeyPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{})

	mock.ExpectGet("transtree:en:translation:greeting").SetVal("hello")

	val, ok := s.Lookup(context.Background(), transtree.LookupRequest{
		Key:       "greeting",
		Locale:    "en",
		Namespace: "translation",
	})
	if !ok || val != "hello" {
		t.Errorf("Expected 'hello', got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisFromClient(db, RedisConfig{})

	mock.ExpectPing().SetVal("PONG")

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedis_Close(t *testing.T) {
	db, mock := redismock.NewClientMock()

	s := NewRedisFromClient(db, RedisConfig{})

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	_ = mock
}

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis(RedisConfig{URL: "not-a-url"})
	if err == nil {
		t.Fatal("Expected an error for an invalid URL")
	}
}

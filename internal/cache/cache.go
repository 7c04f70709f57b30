package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Client é nil quando REDIS_ADDR não está configurado; nesse caso todo
// acesso degrada para o banco. Cache aqui é só frescor de relatório,
// nunca mecanismo de correção.
var Client *redis.Client

func Init(cfg *config.Config) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR vazio, cache de relatórios desligado.")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		log.Warnf("Redis indisponível (%v), cache desligado.", err)
		Client = nil
		return
	}
	log.Info("Cache de relatórios conectado ao Redis.")
}

func Enabled() bool { return Client != nil }

// ReportKey monta a chave de relatório por tenant. Toda mutação de
// venda/financeiro invalida o prefixo "report:<company>:<branch>:".
func ReportKey(companyID, branchID uint, parts ...any) string {
	key := fmt.Sprintf("report:%d:%d", companyID, branchID)
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

func Get(ctx context.Context, key string, dest any) bool {
	if Client == nil {
		return false
	}
	val, err := Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	} else if err != nil {
		log.Warnf("Erro ao ler cache %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}
	return true
}

func Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if Client == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := Client.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Warnf("Erro ao gravar cache %s: %v", key, err)
	}
}

// InvalidateReports apaga todas as chaves de relatório do tenant.
func InvalidateReports(ctx context.Context, companyID, branchID uint) {
	if Client == nil {
		return
	}
	pattern := fmt.Sprintf("report:%d:%d:*", companyID, branchID)
	iter := Client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := Client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warnf("Erro ao invalidar cache %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Warnf("Erro ao varrer chaves de cache: %v", err)
	}
}

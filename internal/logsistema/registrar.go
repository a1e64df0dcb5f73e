package logsistema

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Registrar grava um log do sistema. Falha de escrita não interrompe a
// requisição que originou o log.
func Registrar(db *gorm.DB, nivel, modulo, mensagem string, dadosExtras map[string]any, r *http.Request) {
	entrada := LogSistema{
		Nivel:    nivel,
		Modulo:   modulo,
		Mensagem: mensagem,
	}

	if dadosExtras != nil {
		if raw, err := json.Marshal(dadosExtras); err == nil {
			entrada.DadosExtras = raw
		}
	}

	if r != nil {
		ip := IPOrigem(r)
		if ip != "" {
			entrada.IP = &ip
		}
	}

	if err := db.Create(&entrada).Error; err != nil {
		log.Printf("erro ao criar log do sistema: %v", err)
	}
}

// IPOrigem extrai o IP do cliente, respeitando X-Forwarded-For.
func IPOrigem(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

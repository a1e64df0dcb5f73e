package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// RespondJSON escreve o corpo JSON com o status informado.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RespondErro escreve um erro no formato {"error": "..."} esperado pelos
// consumidores da API.
func RespondErro(w http.ResponseWriter, status int, mensagem string) {
	RespondJSON(w, status, map[string]string{"error": mensagem})
}

// ParseBool interpreta valores booleanos vindos de query string, aceitando as
// variantes em português. Retorna nil quando o valor é vazio ou irreconhecível.
func ParseBool(valor string) *bool {
	switch strings.ToLower(strings.TrimSpace(valor)) {
	case "1", "true", "t", "sim", "yes", "y":
		v := true
		return &v
	case "0", "false", "f", "nao", "não", "no", "n":
		v := false
		return &v
	}
	return nil
}

// Paginacao extrai page/per_page da query string com os limites da API.
func Paginacao(r *http.Request) (page, perPage int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 1 {
		page = v
	}
	perPage = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v >= 1 {
		perPage = v
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// TotalPaginas calcula o número de páginas para os metadados de listagem.
func TotalPaginas(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 0
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

// SafeOrdering valida o campo de ordenação contra a lista permitida,
// preservando o prefixo "-" para ordem decrescente.
func SafeOrdering(param string, permitidos map[string]bool, padrao string) string {
	raw := strings.TrimSpace(param)
	if raw == "" {
		return padrao
	}
	campo := strings.TrimPrefix(raw, "-")
	if permitidos[campo] {
		return raw
	}
	return padrao
}

// OrderingSQL converte a ordenação no estilo "-campo" para SQL.
func OrderingSQL(ordering string) string {
	if strings.HasPrefix(ordering, "-") {
		return strings.TrimPrefix(ordering, "-") + " DESC"
	}
	return ordering + " ASC"
}

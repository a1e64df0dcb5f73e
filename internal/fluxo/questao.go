package fluxo

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

// Tipos de questão suportados.
var TiposQuestaoValidos = []string{
	"texto", "numero", "email", "telefone", "cpf_cnpj", "cep", "endereco",
	"select", "multiselect", "data", "hora", "data_hora", "booleano",
	"escala", "arquivo",
}

// Regras de obrigatoriedade de resposta.
var TiposValidacaoValidos = []string{
	"obrigatoria", "opcional", "condicional",
}

// ListaOpcoes é a lista de opções de resposta persistida como JSON.
type ListaOpcoes []string

func (o ListaOpcoes) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *ListaOpcoes) Scan(src any) error {
	if src == nil {
		*o = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	}
	return errors.New("tipo inválido para ListaOpcoes")
}

// QuestaoFluxo é uma questão pertencente a um fluxo de atendimento. O par
// (fluxo, índice) é único.
type QuestaoFluxo struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	FluxoID              uint        `gorm:"index;uniqueIndex:idx_fluxo_indice;not null" json:"fluxo_id"`
	Indice               int         `gorm:"uniqueIndex:idx_fluxo_indice;not null" json:"indice"`
	Titulo               string      `gorm:"size:500;not null" json:"titulo"`
	Descricao            *string     `json:"descricao"`
	TipoQuestao          string      `gorm:"size:30;index;not null" json:"tipo_questao"`
	TipoValidacao        string      `gorm:"size:20;default:obrigatoria" json:"tipo_validacao"`
	OpcoesResposta       ListaOpcoes `gorm:"type:jsonb" json:"opcoes_resposta"`
	RespostaPadrao       *string     `gorm:"size:500" json:"resposta_padrao"`
	RegexValidacao       *string     `gorm:"size:500" json:"regex_validacao"`
	TamanhoMinimo        *int        `json:"tamanho_minimo"`
	TamanhoMaximo        *int        `json:"tamanho_maximo"`
	ValorMinimo          *float64    `gorm:"type:numeric(12,2)" json:"valor_minimo"`
	ValorMaximo          *float64    `gorm:"type:numeric(12,2)" json:"valor_maximo"`
	QuestaoDependenciaID *uint       `gorm:"index" json:"questao_dependencia_id"`
	ValorDependencia     *string     `gorm:"size:255" json:"valor_dependencia"`
	Ativo                bool        `gorm:"default:true" json:"ativo"`
	PermiteVoltar        bool        `gorm:"default:true" json:"permite_voltar"`
	PermiteEditar        bool        `gorm:"default:true" json:"permite_editar"`
	OrdemExibicao        int         `gorm:"default:0" json:"ordem_exibicao"`
}

func (QuestaoFluxo) TableName() string { return "questoes_fluxo" }

// EhObrigatoria indica se a questão exige resposta.
func (q *QuestaoFluxo) EhObrigatoria() bool {
	return q.TipoValidacao == "obrigatoria"
}

// ValidarResposta aplica as regras configuradas na ordem fixa: obrigatória,
// tamanho, regex, tipo numérico com faixa, email e opções de seleção. A
// primeira regra violada interrompe a validação e devolve a mensagem.
func (q *QuestaoFluxo) ValidarResposta(valor any) (bool, string) {
	if respostaVazia(valor) {
		if q.EhObrigatoria() {
			return false, "Esta questão é obrigatória"
		}
		return true, ""
	}

	texto := valorParaString(valor)

	if q.TamanhoMinimo != nil && len([]rune(texto)) < *q.TamanhoMinimo {
		return false, fmt.Sprintf("Resposta deve ter no mínimo %d caracteres", *q.TamanhoMinimo)
	}
	if q.TamanhoMaximo != nil && len([]rune(texto)) > *q.TamanhoMaximo {
		return false, fmt.Sprintf("Resposta deve ter no máximo %d caracteres", *q.TamanhoMaximo)
	}

	if q.RegexValidacao != nil && *q.RegexValidacao != "" {
		re, err := regexp.Compile(*q.RegexValidacao)
		if err != nil {
			return false, "Regex de validação inválida na questão"
		}
		if !re.MatchString(texto) {
			return false, "Resposta não está no formato esperado"
		}
	}

	switch q.TipoQuestao {
	case "numero", "escala":
		numero, err := strconv.ParseFloat(strings.TrimSpace(texto), 64)
		if err != nil {
			return false, "Resposta deve ser um número"
		}
		if q.ValorMinimo != nil && numero < *q.ValorMinimo {
			return false, fmt.Sprintf("Valor deve ser no mínimo %g", *q.ValorMinimo)
		}
		if q.ValorMaximo != nil && numero > *q.ValorMaximo {
			return false, fmt.Sprintf("Valor deve ser no máximo %g", *q.ValorMaximo)
		}

	case "email":
		if _, err := mail.ParseAddress(strings.TrimSpace(texto)); err != nil {
			return false, "Email inválido"
		}

	case "select":
		if len(q.OpcoesResposta) > 0 && !q.opcaoValida(texto) {
			return false, "Resposta não está entre as opções disponíveis"
		}

	case "multiselect":
		itens, ok := valorParaLista(valor)
		if !ok {
			return false, "Resposta deve ser uma lista de opções"
		}
		for _, item := range itens {
			if len(q.OpcoesResposta) > 0 && !q.opcaoValida(item) {
				return false, fmt.Sprintf("Opção %q não está entre as opções disponíveis", item)
			}
		}
	}

	return true, ""
}

func (q *QuestaoFluxo) opcaoValida(valor string) bool {
	for _, op := range q.OpcoesResposta {
		if op == valor {
			return true
		}
	}
	return false
}

// GetOpcoesFormatadas devolve as opções prontas para exibição.
func (q *QuestaoFluxo) GetOpcoesFormatadas() []string {
	if q.OpcoesResposta == nil {
		return []string{}
	}
	return q.OpcoesResposta
}

func respostaVazia(valor any) bool {
	switch v := valor.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

func valorParaString(valor any) string {
	switch v := valor.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", valor)
}

func valorParaLista(valor any) ([]string, bool) {
	switch v := valor.(type) {
	case []string:
		return v, true
	case []any:
		itens := make([]string, 0, len(v))
		for _, item := range v {
			itens = append(itens, valorParaString(item))
		}
		return itens, true
	}
	return nil, false
}

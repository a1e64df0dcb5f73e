package atendimento

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"
)

// RespostaRegistro é a entrada viva do mapa de respostas de um atendimento.
// O log de auditoria normalizado fica em RespostaQuestao; aqui vive apenas a
// resposta corrente de cada questão.
type RespostaRegistro struct {
	Resposta     any       `json:"resposta"`
	DataResposta time.Time `json:"data_resposta"`
	Valida       bool      `json:"valida"`
	MensagemErro *string   `json:"mensagem_erro,omitempty"`
}

// MapaRespostas mapeia o índice da questão (como string decimal) para a
// resposta corrente. Persistido como JSON.
type MapaRespostas map[string]RespostaRegistro

func (m MapaRespostas) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MapaRespostas) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("tipo inválido para MapaRespostas")
}

// Registrar grava ou sobrescreve a resposta do índice informado.
func (m MapaRespostas) Registrar(indice int, resposta any, valida bool, mensagemErro string) {
	registro := RespostaRegistro{
		Resposta:     resposta,
		DataResposta: time.Now(),
		Valida:       valida,
	}
	if mensagemErro != "" {
		registro.MensagemErro = &mensagemErro
	}
	m[strconv.Itoa(indice)] = registro
}

// Obter devolve a resposta registrada para o índice, se existir.
func (m MapaRespostas) Obter(indice int) (RespostaRegistro, bool) {
	r, ok := m[strconv.Itoa(indice)]
	return r, ok
}

// ContarValidas conta as entradas com valida=true e resposta não nula. É a
// fonte de verdade de questoes_respondidas: o contador é sempre recalculado a
// partir do mapa, nunca incrementado isoladamente, para tolerar re-respostas
// sem contagem dupla.
func (m MapaRespostas) ContarValidas() int {
	total := 0
	for _, r := range m {
		if r.Valida && r.Resposta != nil {
			total++
		}
	}
	return total
}

// PorIndice converte o mapa para índice numérico → valor da resposta, usado
// na avaliação de visibilidade condicional.
func (m MapaRespostas) PorIndice() map[int]any {
	porIndice := make(map[int]any, len(m))
	for chave, r := range m {
		indice, err := strconv.Atoi(chave)
		if err != nil {
			continue
		}
		if r.Valida && r.Resposta != nil {
			porIndice[indice] = r.Resposta
		}
	}
	return porIndice
}

// IndicesOrdenados devolve os índices respondidos em ordem crescente.
func (m MapaRespostas) IndicesOrdenados() []int {
	indices := make([]int, 0, len(m))
	for chave := range m {
		if indice, err := strconv.Atoi(chave); err == nil {
			indices = append(indices, indice)
		}
	}
	sort.Ints(indices)
	return indices
}

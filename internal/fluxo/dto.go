package fluxo

// CreateFluxoRequest é o payload de criação de fluxo.
type CreateFluxoRequest struct {
	Nome                 string  `json:"nome" validate:"required,max=255"`
	Descricao            *string `json:"descricao"`
	TipoFluxo            string  `json:"tipo_fluxo" validate:"required,oneof=qualificacao vendas suporte onboarding pesquisa personalizado"`
	Status               *string `json:"status" validate:"omitempty,oneof=ativo inativo rascunho teste"`
	MaxTentativas        *int    `json:"max_tentativas" validate:"omitempty,min=1"`
	TempoLimiteMinutos   *int    `json:"tempo_limite_minutos" validate:"omitempty,min=1"`
	PermitePularQuestoes *bool   `json:"permite_pular_questoes"`
	Ativo                *bool   `json:"ativo"`
}

// UpdateFluxoRequest atualiza campos pontuais de um fluxo.
type UpdateFluxoRequest struct {
	Nome                 *string `json:"nome" validate:"omitempty,max=255"`
	Descricao            *string `json:"descricao"`
	TipoFluxo            *string `json:"tipo_fluxo" validate:"omitempty,oneof=qualificacao vendas suporte onboarding pesquisa personalizado"`
	Status               *string `json:"status" validate:"omitempty,oneof=ativo inativo rascunho teste"`
	MaxTentativas        *int    `json:"max_tentativas" validate:"omitempty,min=1"`
	TempoLimiteMinutos   *int    `json:"tempo_limite_minutos"`
	PermitePularQuestoes *bool   `json:"permite_pular_questoes"`
	Ativo                *bool   `json:"ativo"`
}

// CreateQuestaoRequest é o payload de criação de questão. Índice omitido é
// atribuído como max(indice)+1 dentro do fluxo.
type CreateQuestaoRequest struct {
	FluxoID              uint        `json:"fluxo_id" validate:"required"`
	Indice               int         `json:"indice" validate:"omitempty,min=1"`
	Titulo               string      `json:"titulo" validate:"required,max=500"`
	Descricao            *string     `json:"descricao"`
	TipoQuestao          string      `json:"tipo_questao" validate:"required"`
	TipoValidacao        *string     `json:"tipo_validacao" validate:"omitempty,oneof=obrigatoria opcional condicional"`
	OpcoesResposta       ListaOpcoes `json:"opcoes_resposta"`
	RespostaPadrao       *string     `json:"resposta_padrao"`
	RegexValidacao       *string     `json:"regex_validacao"`
	TamanhoMinimo        *int        `json:"tamanho_minimo" validate:"omitempty,min=0"`
	TamanhoMaximo        *int        `json:"tamanho_maximo" validate:"omitempty,min=1"`
	ValorMinimo          *float64    `json:"valor_minimo"`
	ValorMaximo          *float64    `json:"valor_maximo"`
	QuestaoDependenciaID *uint       `json:"questao_dependencia_id"`
	ValorDependencia     *string     `json:"valor_dependencia"`
	Ativo                *bool       `json:"ativo"`
	PermiteVoltar        *bool       `json:"permite_voltar"`
	PermiteEditar        *bool       `json:"permite_editar"`
	OrdemExibicao        *int        `json:"ordem_exibicao"`
}

// UpdateQuestaoRequest atualiza campos pontuais de uma questão.
type UpdateQuestaoRequest struct {
	Indice               *int        `json:"indice" validate:"omitempty,min=1"`
	Titulo               *string     `json:"titulo" validate:"omitempty,max=500"`
	Descricao            *string     `json:"descricao"`
	TipoQuestao          *string     `json:"tipo_questao"`
	TipoValidacao        *string     `json:"tipo_validacao" validate:"omitempty,oneof=obrigatoria opcional condicional"`
	OpcoesResposta       ListaOpcoes `json:"opcoes_resposta"`
	RespostaPadrao       *string     `json:"resposta_padrao"`
	RegexValidacao       *string     `json:"regex_validacao"`
	TamanhoMinimo        *int        `json:"tamanho_minimo"`
	TamanhoMaximo        *int        `json:"tamanho_maximo"`
	ValorMinimo          *float64    `json:"valor_minimo"`
	ValorMaximo          *float64    `json:"valor_maximo"`
	QuestaoDependenciaID *uint       `json:"questao_dependencia_id"`
	ValorDependencia     *string     `json:"valor_dependencia"`
	Ativo                *bool       `json:"ativo"`
	PermiteVoltar        *bool       `json:"permite_voltar"`
	PermiteEditar        *bool       `json:"permite_editar"`
	OrdemExibicao        *int        `json:"ordem_exibicao"`
}

// FluxoResponse acrescenta as estatísticas calculadas à serialização do fluxo.
type FluxoResponse struct {
	FluxoAtendimento
	TotalQuestoes int            `json:"total_questoes"`
	Estatisticas  map[string]any `json:"estatisticas,omitempty"`
}

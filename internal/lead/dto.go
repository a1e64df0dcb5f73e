package lead

// CreateLeadRequest é o payload de criação de lead.
type CreateLeadRequest struct {
	NomeRazaoSocial  string   `json:"nome_razaosocial" validate:"required,max=255"`
	Telefone         string   `json:"telefone" validate:"required,max=17"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Valor            float64  `json:"valor"`
	Empresa          *string  `json:"empresa"`
	Origem           string   `json:"origem"`
	CanalEntrada     *string  `json:"canal_entrada"`
	TipoEntrada      *string  `json:"tipo_entrada"`
	CpfCnpj          *string  `json:"cpf_cnpj"`
	Endereco         *string  `json:"endereco"`
	Rua              *string  `json:"rua"`
	NumeroResidencia *string  `json:"numero_residencia"`
	Bairro           *string  `json:"bairro"`
	Cidade           *string  `json:"cidade"`
	Estado           *string  `json:"estado" validate:"omitempty,len=2"`
	Cep              *string  `json:"cep"`
	Observacoes      *string  `json:"observacoes"`

	// Quando true (padrão), registra um histórico de contato de abertura.
	CriarHistoricoContato *bool `json:"criar_historico_contato"`
}

// UpdateLeadRequest atualiza campos pontuais de um lead.
type UpdateLeadRequest struct {
	NomeRazaoSocial *string  `json:"nome_razaosocial"`
	Email           *string  `json:"email" validate:"omitempty,email"`
	Telefone        *string  `json:"telefone"`
	Valor           *float64 `json:"valor"`
	Empresa         *string  `json:"empresa"`
	Origem          *string  `json:"origem"`
	StatusAPI       *string  `json:"status_api"`
	CpfCnpj         *string  `json:"cpf_cnpj"`
	Endereco        *string  `json:"endereco"`
	Cidade          *string  `json:"cidade"`
	Estado          *string  `json:"estado" validate:"omitempty,len=2"`
	Cep             *string  `json:"cep"`
	Observacoes     *string  `json:"observacoes"`
	Ativo           *bool    `json:"ativo"`
}

// ResumoLead é a projeção usada nas respostas de busca por telefone.
type ResumoLead struct {
	ID                uint    `json:"id"`
	Nome              string  `json:"nome"`
	Email             *string `json:"email"`
	Telefone          string  `json:"telefone"`
	Origem            string  `json:"origem"`
	StatusAPI         string  `json:"status_api"`
	DataCadastro      string  `json:"data_cadastro"`
	ScoreQualificacao *int    `json:"score_qualificacao"`
	TotalContatos     int64   `json:"total_contatos"`
	TotalAtendimentos int64   `json:"total_atendimentos"`
}

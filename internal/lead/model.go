package lead

import "time"

// Origens de entrada aceitas para um lead.
var OrigensValidas = []string{
	"site", "facebook", "instagram", "google", "whatsapp",
	"indicacao", "telefone", "email", "outros",
}

// Status de processamento do lead na API externa.
var StatusAPIValidos = []string{
	"pendente", "processado", "erro", "sucesso", "rejeitado",
}

// LeadProspecto armazena informações de leads e prospectos.
type LeadProspecto struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	NomeRazaoSocial  string    `gorm:"size:255;not null" json:"nome_razaosocial"`
	Email            *string   `gorm:"size:255;index" json:"email"`
	Telefone         string    `gorm:"size:17;index;not null" json:"telefone"`
	Valor            float64   `gorm:"type:numeric(12,2);default:0" json:"valor"`
	Empresa          *string   `gorm:"size:255" json:"empresa"`
	Origem           string    `gorm:"size:50;index;default:site" json:"origem"`
	CanalEntrada     *string   `gorm:"size:50" json:"canal_entrada"`
	TipoEntrada      *string   `gorm:"size:50" json:"tipo_entrada"`
	DataCadastro     time.Time `gorm:"index;autoCreateTime" json:"data_cadastro"`
	StatusAPI        string    `gorm:"size:20;index;default:pendente" json:"status_api"`
	CpfCnpj          *string   `gorm:"size:18" json:"cpf_cnpj"`
	Endereco         *string   `json:"endereco"`
	Rua              *string   `gorm:"size:255" json:"rua"`
	NumeroResidencia *string   `gorm:"size:20" json:"numero_residencia"`
	Bairro           *string   `gorm:"size:100" json:"bairro"`
	Cidade           *string   `gorm:"size:100" json:"cidade"`
	Estado           *string   `gorm:"size:2" json:"estado"`
	Cep              *string   `gorm:"size:10" json:"cep"`
	Observacoes      *string   `json:"observacoes"`
	ScoreQualificacao *int     `json:"score_qualificacao"`
	DataAtualizacao  time.Time `gorm:"autoUpdateTime" json:"data_atualizacao"`
	Ativo            bool      `gorm:"default:true" json:"ativo"`
}

func (LeadProspecto) TableName() string { return "leads_prospectos" }

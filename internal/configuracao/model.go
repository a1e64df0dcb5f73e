package configuracao

import "time"

// Tipos de valor aceitos para uma configuração.
var TiposValorValidos = []string{"texto", "numero", "booleano", "json"}

// ConfiguracaoSistema guarda parâmetros operacionais chave/valor editáveis
// sem nova implantação.
type ConfiguracaoSistema struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Chave           string    `gorm:"size:100;uniqueIndex;not null" json:"chave"`
	Valor           string    `gorm:"not null" json:"valor"`
	Tipo            string    `gorm:"size:20;default:texto" json:"tipo"`
	Descricao       *string   `json:"descricao"`
	Ativo           bool      `gorm:"default:true" json:"ativo"`
	DataAtualizacao time.Time `gorm:"autoUpdateTime" json:"data_atualizacao"`
}

func (ConfiguracaoSistema) TableName() string { return "configuracao_sistema" }

// StatusConfiguravel mapeia um código de status interno para o rótulo exibido
// nas interfaces. É consultado apenas na serialização: o valor persistido nos
// registros de negócio é sempre o código.
type StatusConfiguravel struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Categoria     string `gorm:"size:50;uniqueIndex:idx_categoria_codigo;not null" json:"categoria"`
	Codigo        string `gorm:"size:50;uniqueIndex:idx_categoria_codigo;not null" json:"codigo"`
	Rotulo        string `gorm:"size:100;not null" json:"rotulo"`
	Cor           *string `gorm:"size:20" json:"cor"`
	OrdemExibicao int    `gorm:"default:0" json:"ordem_exibicao"`
	Ativo         bool   `gorm:"default:true" json:"ativo"`
}

func (StatusConfiguravel) TableName() string { return "status_configuraveis" }

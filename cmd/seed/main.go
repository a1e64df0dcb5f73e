// Popula o banco com dados de demonstração: operador admin, fluxos com suas
// questões, leads e um atendimento em andamento.
package main

import (
	"log"
	"os"

	"github.com/darlanvelozo/dashboard-comercial/internal/atendimento"
	"github.com/darlanvelozo/dashboard-comercial/internal/configuracao"
	"github.com/darlanvelozo/dashboard-comercial/internal/database"
	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/darlanvelozo/dashboard-comercial/internal/lead"
	"github.com/darlanvelozo/dashboard-comercial/internal/operador"
	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis do ambiente")
	}

	db, err := database.Conectar()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	seedOperador(db)
	fluxoVendas := seedFluxoVendas(db)
	seedFluxoQualificacao(db)
	leads := seedLeads(db)
	seedAtendimento(db, fluxoVendas, leads[0])
	seedConfiguracoes(db)

	log.Println("Dados de demonstração criados")
}

func seedOperador(db *gorm.DB) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@dashboard.local"
	}
	senha := os.Getenv("SEED_ADMIN_SENHA")
	if senha == "" {
		senha = "trocar-no-primeiro-acesso"
	}

	var existente operador.Operador
	if err := db.Where("email = ?", email).First(&existente).Error; err == nil {
		return
	}

	hash, err := utils.HashSenha(senha)
	if err != nil {
		log.Fatal("Erro ao gerar hash da senha:", err)
	}
	admin := operador.Operador{
		Nome:    "Administrador",
		Email:   email,
		Senha:   hash,
		IsAdmin: true,
		Ativo:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Erro ao criar operador admin:", err)
	}
	log.Println("Operador admin criado:", email)
}

func seedFluxoVendas(db *gorm.DB) *fluxo.FluxoAtendimento {
	var existente fluxo.FluxoAtendimento
	if err := db.Preload("Questoes").Where("nome = ?", "Atendimento Comercial").First(&existente).Error; err == nil {
		return &existente
	}

	descricao := "Coleta de dados para proposta comercial via WhatsApp"
	criadoPor := "seed"
	f := fluxo.FluxoAtendimento{
		Nome:          "Atendimento Comercial",
		Descricao:     &descricao,
		TipoFluxo:     "vendas",
		Status:        "ativo",
		MaxTentativas: 3,
		CriadoPor:     &criadoPor,
		Ativo:         true,
	}
	if err := db.Create(&f).Error; err != nil {
		log.Fatal("Erro ao criar fluxo de vendas:", err)
	}

	questoes := []fluxo.QuestaoFluxo{
		{FluxoID: f.ID, Indice: 1, Titulo: "Qual o seu nome completo?", TipoQuestao: "texto", TipoValidacao: "obrigatoria", TamanhoMinimo: intPtr(3), Ativo: true, PermiteVoltar: true, PermiteEditar: true},
		{FluxoID: f.ID, Indice: 2, Titulo: "Qual o seu email?", TipoQuestao: "email", TipoValidacao: "obrigatoria", Ativo: true, PermiteVoltar: true, PermiteEditar: true},
		{FluxoID: f.ID, Indice: 3, Titulo: "Qual plano você tem interesse?", TipoQuestao: "select", TipoValidacao: "obrigatoria", OpcoesResposta: fluxo.ListaOpcoes{"Básico", "Intermediário", "Premium"}, Ativo: true, PermiteVoltar: true, PermiteEditar: true},
		{FluxoID: f.ID, Indice: 4, Titulo: "Deseja agendar uma visita técnica?", TipoQuestao: "booleano", TipoValidacao: "opcional", Ativo: true, PermiteVoltar: true, PermiteEditar: true},
	}
	for i := range questoes {
		if err := db.Create(&questoes[i]).Error; err != nil {
			log.Fatal("Erro ao criar questão do fluxo de vendas:", err)
		}
	}
	f.Questoes = questoes
	log.Println("Fluxo de vendas criado com", len(questoes), "questões")
	return &f
}

func seedFluxoQualificacao(db *gorm.DB) {
	var existente fluxo.FluxoAtendimento
	if err := db.Where("nome = ?", "Qualificação de Leads").First(&existente).Error; err == nil {
		return
	}

	descricao := "Pontuação de interesse e orçamento de novos leads"
	criadoPor := "seed"
	f := fluxo.FluxoAtendimento{
		Nome:          "Qualificação de Leads",
		Descricao:     &descricao,
		TipoFluxo:     "qualificacao",
		Status:        "ativo",
		MaxTentativas: 2,
		CriadoPor:     &criadoPor,
		Ativo:         true,
	}
	if err := db.Create(&f).Error; err != nil {
		log.Fatal("Erro ao criar fluxo de qualificação:", err)
	}

	questoes := []fluxo.QuestaoFluxo{
		{FluxoID: f.ID, Indice: 1, Titulo: "De 1 a 10, qual o seu interesse no serviço?", TipoQuestao: "escala", TipoValidacao: "obrigatoria", ValorMinimo: floatPtr(1), ValorMaximo: floatPtr(10), Ativo: true, PermiteVoltar: true, PermiteEditar: true},
		{FluxoID: f.ID, Indice: 2, Titulo: "De 1 a 10, qual a urgência da contratação?", TipoQuestao: "escala", TipoValidacao: "obrigatoria", ValorMinimo: floatPtr(1), ValorMaximo: floatPtr(10), Ativo: true, PermiteVoltar: true, PermiteEditar: true},
		{FluxoID: f.ID, Indice: 3, Titulo: "Você já possui orçamento aprovado?", TipoQuestao: "booleano", TipoValidacao: "opcional", Ativo: true, PermiteVoltar: true, PermiteEditar: true},
	}
	for i := range questoes {
		if err := db.Create(&questoes[i]).Error; err != nil {
			log.Fatal("Erro ao criar questão do fluxo de qualificação:", err)
		}
	}
	log.Println("Fluxo de qualificação criado com", len(questoes), "questões")
}

func seedLeads(db *gorm.DB) []lead.LeadProspecto {
	demos := []lead.LeadProspecto{
		{NomeRazaoSocial: "Maria Souza", Telefone: "+5586999110001", Origem: "whatsapp", StatusAPI: "pendente", Ativo: true},
		{NomeRazaoSocial: "Comercial Horizonte LTDA", Telefone: "+5586999110002", Origem: "site", StatusAPI: "pendente", Ativo: true},
	}
	for i := range demos {
		var existente lead.LeadProspecto
		err := db.Where("telefone = ? AND ativo = ?", demos[i].Telefone, true).First(&existente).Error
		if err == nil {
			demos[i] = existente
			continue
		}
		if err := db.Create(&demos[i]).Error; err != nil {
			log.Fatal("Erro ao criar lead de demonstração:", err)
		}
	}
	return demos
}

func seedAtendimento(db *gorm.DB, f *fluxo.FluxoAtendimento, l lead.LeadProspecto) {
	var total int64
	db.Model(&atendimento.AtendimentoFluxo{}).Where("lead_id = ?", l.ID).Count(&total)
	if total > 0 {
		return
	}

	idExterno := uuid.NewString()
	a := atendimento.AtendimentoFluxo{
		LeadID:          l.ID,
		FluxoID:         f.ID,
		Status:          atendimento.StatusIniciado,
		QuestaoAtual:    1,
		TotalQuestoes:   f.GetTotalQuestoes(),
		MaxTentativas:   f.MaxTentativas,
		TentativasAtual: 1,
		DadosRespostas:  atendimento.MapaRespostas{},
		IDExterno:       &idExterno,
	}
	if err := db.Create(&a).Error; err != nil {
		log.Fatal("Erro ao criar atendimento de demonstração:", err)
	}
	log.Println("Atendimento de demonstração criado para", l.NomeRazaoSocial)
}

func seedConfiguracoes(db *gorm.DB) {
	configs := []configuracao.ConfiguracaoSistema{
		{Chave: "atendimento_max_tentativas_padrao", Valor: "3", Tipo: "numero", Ativo: true},
		{Chave: "whatsapp_numero_oficial", Valor: "+5586999990000", Tipo: "texto", Ativo: true},
	}
	for i := range configs {
		var existente configuracao.ConfiguracaoSistema
		if err := db.Where("chave = ?", configs[i].Chave).First(&existente).Error; err == nil {
			continue
		}
		if err := db.Create(&configs[i]).Error; err != nil {
			log.Fatal("Erro ao criar configuração:", err)
		}
	}

	rotulos := []configuracao.StatusConfiguravel{
		{Categoria: "atendimento", Codigo: "iniciado", Rotulo: "Iniciado", OrdemExibicao: 1, Ativo: true},
		{Categoria: "atendimento", Codigo: "em_andamento", Rotulo: "Em andamento", OrdemExibicao: 2, Ativo: true},
		{Categoria: "atendimento", Codigo: "pausado", Rotulo: "Pausado", OrdemExibicao: 3, Ativo: true},
		{Categoria: "atendimento", Codigo: "completado", Rotulo: "Completado", OrdemExibicao: 4, Ativo: true},
		{Categoria: "atendimento", Codigo: "abandonado", Rotulo: "Abandonado", OrdemExibicao: 5, Ativo: true},
		{Categoria: "lead", Codigo: "pendente", Rotulo: "Pendente", OrdemExibicao: 1, Ativo: true},
		{Categoria: "lead", Codigo: "processado", Rotulo: "Processado", OrdemExibicao: 2, Ativo: true},
	}
	for i := range rotulos {
		var existente configuracao.StatusConfiguravel
		err := db.Where("categoria = ? AND codigo = ?", rotulos[i].Categoria, rotulos[i].Codigo).First(&existente).Error
		if err == nil {
			continue
		}
		if err := db.Create(&rotulos[i]).Error; err != nil {
			log.Fatal("Erro ao criar rótulo de status:", err)
		}
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

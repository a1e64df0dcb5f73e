package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/darlanvelozo/dashboard-comercial/internal/atendimento"
	"github.com/darlanvelozo/dashboard-comercial/internal/auth"
	"github.com/darlanvelozo/dashboard-comercial/internal/configuracao"
	"github.com/darlanvelozo/dashboard-comercial/internal/database"
	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/darlanvelozo/dashboard-comercial/internal/historico"
	"github.com/darlanvelozo/dashboard-comercial/internal/lead"
	"github.com/darlanvelozo/dashboard-comercial/internal/logsistema"
	"github.com/darlanvelozo/dashboard-comercial/internal/operador"
	"github.com/darlanvelozo/dashboard-comercial/internal/relatorio"
	"github.com/darlanvelozo/dashboard-comercial/internal/resposta"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis do ambiente")
	}

	db, err := database.Conectar()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := db.AutoMigrate(
		&lead.LeadProspecto{},
		&historico.HistoricoContato{},
		&fluxo.FluxoAtendimento{},
		&fluxo.QuestaoFluxo{},
		&atendimento.AtendimentoFluxo{},
		&resposta.RespostaQuestao{},
		&configuracao.ConfiguracaoSistema{},
		&configuracao.StatusConfiguravel{},
		&logsistema.LogSistema{},
		&operador.Operador{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	// Handlers
	leadHandler := lead.NewHandler(db)
	historicoHandler := historico.NewHandler(db)
	fluxoHandler := fluxo.NewHandler(db)
	atendimentoHandler := atendimento.NewHandler(db)
	respostaHandler := resposta.NewHandler(db)
	relatorioHandler := relatorio.NewHandler(db)
	configHandler := configuracao.NewHandler(db)
	operadorHandler := operador.NewHandler(db)

	// Router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Rotas públicas (automações de atendimento e login)
	api.HandleFunc("/login", operadorHandler.Login).Methods("POST")

	api.HandleFunc("/leads", leadHandler.Criar).Methods("POST")
	api.HandleFunc("/leads/busca", leadHandler.BuscarPorTelefone).Methods("GET")

	api.HandleFunc("/fluxos/ativos", fluxoHandler.ListarAtivos).Methods("GET")
	api.HandleFunc("/fluxos/{id}/questoes/{indice}", fluxoHandler.BuscarQuestaoPorIndice).Methods("GET")

	api.HandleFunc("/atendimentos", atendimentoHandler.Criar).Methods("POST")
	api.HandleFunc("/atendimentos/consulta", atendimentoHandler.ConsultarPorTelefone).Methods("GET")
	api.HandleFunc("/atendimentos/{id}", atendimentoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/atendimentos/{id}/responder", atendimentoHandler.Responder).Methods("POST")
	api.HandleFunc("/atendimentos/{id}/avancar", atendimentoHandler.Avancar).Methods("POST")
	api.HandleFunc("/atendimentos/{id}/voltar", atendimentoHandler.Voltar).Methods("POST")
	api.HandleFunc("/atendimentos/{id}/pausar", atendimentoHandler.Pausar).Methods("POST")
	api.HandleFunc("/atendimentos/{id}/retomar", atendimentoHandler.Retomar).Methods("POST")
	api.HandleFunc("/atendimentos/{id}/finalizar", atendimentoHandler.Finalizar).Methods("POST")
	api.HandleFunc("/atendimentos/{id}/reiniciar", atendimentoHandler.Reiniciar).Methods("POST")

	api.HandleFunc("/historico-contatos", historicoHandler.Criar).Methods("POST")

	// Rotas autenticadas (back-office)
	priv := api.NewRoute().Subrouter()
	priv.Use(auth.MiddlewareAutenticacao)

	priv.HandleFunc("/leads", leadHandler.Listar).Methods("GET")
	priv.HandleFunc("/leads/{id}", leadHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/leads/{id}", leadHandler.Atualizar).Methods("PUT")

	priv.HandleFunc("/historico-contatos", historicoHandler.Listar).Methods("GET")
	priv.HandleFunc("/historico-contatos/{id}", historicoHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/leads/{id}/historico-contatos", historicoHandler.ListarPorLead).Methods("GET")

	priv.HandleFunc("/fluxos", fluxoHandler.Criar).Methods("POST")
	priv.HandleFunc("/fluxos", fluxoHandler.Listar).Methods("GET")
	priv.HandleFunc("/fluxos/{id}", fluxoHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/fluxos/{id}", fluxoHandler.Atualizar).Methods("PUT")

	priv.HandleFunc("/questoes", fluxoHandler.CriarQuestao).Methods("POST")
	priv.HandleFunc("/questoes", fluxoHandler.ListarQuestoes).Methods("GET")
	priv.HandleFunc("/questoes/{id}", fluxoHandler.BuscarQuestaoPorID).Methods("GET")
	priv.HandleFunc("/questoes/{id}", fluxoHandler.AtualizarQuestao).Methods("PUT")

	priv.HandleFunc("/atendimentos", atendimentoHandler.Listar).Methods("GET")
	priv.HandleFunc("/atendimentos/{id}", atendimentoHandler.Atualizar).Methods("PUT")

	priv.HandleFunc("/respostas", respostaHandler.Listar).Methods("GET")
	priv.HandleFunc("/respostas/{id}", respostaHandler.BuscarPorID).Methods("GET")
	priv.HandleFunc("/atendimentos/{id}/respostas", respostaHandler.ListarPorAtendimento).Methods("GET")

	priv.HandleFunc("/estatisticas/atendimento", relatorioHandler.Estatisticas).Methods("GET")

	priv.HandleFunc("/configuracoes", configHandler.Listar).Methods("GET")
	priv.HandleFunc("/configuracoes", configHandler.Salvar).Methods("PUT")
	priv.HandleFunc("/configuracoes/{chave}", configHandler.BuscarPorChave).Methods("GET")
	priv.HandleFunc("/status-rotulos", configHandler.ListarRotulos).Methods("GET")
	priv.HandleFunc("/status-rotulos", configHandler.SalvarRotulo).Methods("PUT")

	// Rotas administrativas (destrutivas e gestão de operadores)
	admin := priv.NewRoute().Subrouter()
	admin.Use(auth.RequireAdmin)

	admin.HandleFunc("/leads/{id}", leadHandler.Deletar).Methods("DELETE")
	admin.HandleFunc("/fluxos/{id}", fluxoHandler.Deletar).Methods("DELETE")
	admin.HandleFunc("/questoes/{id}", fluxoHandler.DeletarQuestao).Methods("DELETE")
	admin.HandleFunc("/atendimentos/{id}", atendimentoHandler.Deletar).Methods("DELETE")

	admin.HandleFunc("/operadores", operadorHandler.Criar).Methods("POST")
	admin.HandleFunc("/operadores", operadorHandler.Listar).Methods("GET")
	admin.HandleFunc("/operadores/{id}", operadorHandler.Atualizar).Methods("PUT")
	admin.HandleFunc("/operadores/{id}", operadorHandler.Deletar).Methods("DELETE")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	fmt.Println("Servidor rodando em http://localhost:" + porta)
	log.Fatal(http.ListenAndServe(":"+porta, c.Handler(r)))
}

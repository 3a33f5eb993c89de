// src/models/checklist.go
package models

// ChecklistItem is one step of a focus-mode stage.
type ChecklistItem struct {
	ID    string `json:"id"`
	Title string `json:"titulo"`
}

// Checklist is the ordered list of steps of a stage.
type Checklist struct {
	Stage string          `json:"etapa"`
	Title string          `json:"titulo"`
	Items []ChecklistItem `json:"itens"`
}

// ChecklistProgress counts completed steps of a stage.
type ChecklistProgress struct {
	Stage string `json:"etapa"`
	Done  int    `json:"concluidos"`
	Total int    `json:"total"`
}

// DefaultChecklists are the focus-mode stages offered to every user.
var DefaultChecklists = []Checklist{
	{
		Stage: "financeiro",
		Title: "Financeiro",
		Items: []ChecklistItem{
			{ID: "saldo", Title: "Atualizar saldo em caixa"},
			{ID: "contas_semana", Title: "Revisar contas a pagar da semana"},
			{ID: "recebiveis", Title: "Conferir recebíveis dos canais"},
			{ID: "fluxo", Title: "Checar fluxo de caixa das próximas 4 semanas"},
			{ID: "margem", Title: "Comparar margem real com a margem padrão"},
		},
	},
	{
		Stage: "marketing",
		Title: "Marketing",
		Items: []ChecklistItem{
			{ID: "roas", Title: "Registrar ROAS médio da semana"},
			{ID: "teto_ads", Title: "Confirmar teto de ads"},
			{ID: "organico", Title: "Avaliar conteúdo orgânico"},
			{ID: "decisao", Title: "Decidir: escalar, manter, reduzir ou pausar"},
		},
	},
	{
		Stage: "supply_chain",
		Title: "Supply chain",
		Items: []ChecklistItem{
			{ID: "cobertura", Title: "Atualizar cobertura de estoque em dias"},
			{ID: "rupturas", Title: "Listar itens em ruptura"},
			{ID: "pedidos_compra", Title: "Revisar pedidos de compra em aberto"},
			{ID: "fornecedores", Title: "Confirmar prazos com fornecedores"},
		},
	},
	{
		Stage: "pre_reuniao",
		Title: "Pré-reunião",
		Items: []ChecklistItem{
			{ID: "pauta", Title: "Definir pauta e objetivo"},
			{ID: "numeros", Title: "Levar números atualizados"},
			{ID: "decisoes", Title: "Listar decisões necessárias"},
		},
	},
}

// Progress returns the completion of every default stage given the stored check marks.
func Progress(marks map[string]map[string]bool) []ChecklistProgress {
	out := make([]ChecklistProgress, 0, len(DefaultChecklists))
	for _, c := range DefaultChecklists {
		p := ChecklistProgress{Stage: c.Stage, Total: len(c.Items)}
		for _, item := range c.Items {
			if marks[c.Stage][item.ID] {
				p.Done++
			}
		}
		out = append(out, p)
	}
	return out
}

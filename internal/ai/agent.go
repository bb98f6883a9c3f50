package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restopos/internal/database"
	"restopos/internal/models"
	"restopos/internal/services"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers an admin's question over live POS data through read-only
// tool calls. The agent never mutates anything; writes go through the normal
// order/kitchen handlers.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a restaurant POS admin.

RULES:
1. SALES: For revenue, receipt counts or best sellers, call 'get_sales_report'.
2. KITCHEN: For what is cooking or pending, call 'list_kitchen_queue' and read the JSON.
3. FLOOR: For table occupancy questions, call 'list_tables'.
4. You cannot change any data. If asked to modify orders or prices, explain it must be done in the POS screens.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "get_sales_report",
					Description: "Get revenue, receipt count, discount total and top-selling items for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "list_kitchen_queue",
					Description: "List the items currently queued or in preparation in the kitchen, oldest first.",
				},
				{
					Name:        "list_tables",
					Description: "List every dining table with its current status (free, occupied, cleaning).",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			case "list_kitchen_queue":
				return executeKitchenQueue(ctx, session), nil
			case "list_tables":
				return executeListTables(ctx, session), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	topJSON, _ := json.Marshal(report.TopItems)
	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":        report.TotalRevenue,
			"receipt_count":  report.ReceiptCount,
			"discount_total": report.DiscountTotal,
			"top_items":      string(topJSON),
		},
	})
	if err != nil {
		return "Error talking to the model."
	}
	return printResponse(finalResp)
}

func executeKitchenQueue(ctx context.Context, session *genai.ChatSession) string {
	svc := services.NewKitchenService(database.DB)
	rows, e := svc.Queue(services.KitchenFilters{})
	if e != nil {
		return "Error reading the kitchen queue."
	}

	type queueLine struct {
		Item      string `json:"item"`
		Qty       int    `json:"qty"`
		Status    string `json:"status"`
		Table     string `json:"table"`
		Modifiers string `json:"modifiers"`
	}
	lines := make([]queueLine, 0, len(rows))
	for _, r := range rows {
		table := ""
		if r.TableCode != nil {
			table = *r.TableCode
		}
		lines = append(lines, queueLine{
			Item: r.ItemName, Qty: r.Qty, Status: r.KitchenStatus,
			Table: table, Modifiers: r.ModifiersText,
		})
	}
	jsonBytes, _ := json.Marshal(lines)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_kitchen_queue",
		Response: map[string]interface{}{"queue": string(jsonBytes)},
	})
	if err != nil {
		return "Error talking to the model."
	}
	return printResponse(finalResp)
}

func executeListTables(ctx context.Context, session *genai.ChatSession) string {
	var tables []models.DiningTable
	if err := database.DB.Order("area_id, number").Find(&tables).Error; err != nil {
		return "Error reading tables."
	}

	type tableLine struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	lines := make([]tableLine, 0, len(tables))
	for _, t := range tables {
		lines = append(lines, tableLine{Code: t.Code, Name: t.Name, Status: t.Status})
	}
	jsonBytes, _ := json.Marshal(lines)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "list_tables",
		Response: map[string]interface{}{"tables": string(jsonBytes)},
	})
	if err != nil {
		return "Error talking to the model."
	}
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}

package bot

import (
	"fmt"
	"strconv"
)

const (
	msgAdminsOnly              = "Este comando é apenas para administradores de Pontos de Coleta."
	msgValidateUsage           = "Uso incorreto. Envie o comando seguido do código. Ex: /validar OLEO-ABCD"
	msgDeliveryUnknown         = "Código de entrega não encontrado."
	msgAlreadyValidated        = "Esta doação já foi validada anteriormente."
	msgWrongCampaign           = "ERRO: Esta doação pertence a outra campanha e não pode ser validada aqui."
	msgScoreboardNeedsCampaign = "Você precisa participar de uma campanha para ver o placar. Use /participar."
	msgUnknownCommand          = "Comando não reconhecido. Use /help para ver o que posso fazer."
	msgNoActiveFlow            = "Não entendi. Use /help para ver o que posso fazer."
	msgSlowDown                = "Você está enviando mensagens rápido demais. Aguarde um instante e tente novamente."
)

func msgGreetAdmin(responsible, institution string) string {
	return fmt.Sprintf("Olá, %s! Você é o admin do ponto de coleta '%s'.\n"+
		"Use /validar <código> para validar uma entrega ou /placar para ver o total arrecadado.",
		responsible, institution)
}

func msgGreetDonor(firstName string) string {
	return fmt.Sprintf("Olá de novo, %s! Bem-vindo(a) de volta ao Geração Futuro.\n"+
		"Use /doar para registrar uma nova entrega de óleo ou /placar para ver o resultado da sua campanha.",
		firstName)
}

func msgOnboarding(firstName string) string {
	return fmt.Sprintf("Olá, %s! 👋 Bem-vindo(a) ao Geração Futuro.\n\n"+
		"Eu ajudo a organizar a coleta de óleo de cozinha usado para apoiar projetos para jovens.\n\n"+
		"O que você gostaria de fazer?\n"+
		"➡️ Para participar de uma campanha e doar seu óleo, use o comando /participar.\n"+
		"➡️ Se você é responsável por uma instituição (escola, empresa) e quer se tornar um ponto de coleta, use /cadastrar_local.",
		firstName)
}

func msgValidated(liters float64, donorName string, total float64) string {
	return fmt.Sprintf("✅ Doação de %sL de %s validada com sucesso!\n"+
		"O total da sua campanha agora é de %.2f litros.",
		formatLiters(liters), donorName, total)
}

func msgDonorNotification(liters float64, institution string) string {
	return fmt.Sprintf("Boas notícias! Sua doação de %sL foi validada na '%s'. Obrigado!",
		formatLiters(liters), institution)
}

func msgScoreboard(institution string, total float64) string {
	return fmt.Sprintf("📊 Placar da Campanha '%s' \n\n"+
		"Já arrecadamos um total de %.2f litros de óleo!\n\n"+
		"Continue participando para ajudarmos ainda mais!",
		institution, total)
}

// formatLiters prints reported liters the way the donor typed them: 3.5 stays
// 3.5 and 2 stays 2.
func formatLiters(liters float64) string {
	return strconv.FormatFloat(liters, 'f', -1, 64)
}

package dialogue

import "fmt"

const (
	MsgRetryLater = "Não consegui concluir agora. Por favor, tente novamente em instantes."

	msgRegistrationStart = "Ótimo! Vamos cadastrar sua instituição como um Ponto de Coleta.\n" +
		"Qual o nome da instituição (escola, empresa, etc)?"
	msgAskInstitutionAgain = "Por favor, informe o nome da instituição (escola, empresa, etc)."
	msgAskResponsible      = "Entendido. E qual o seu nome (responsável pelo ponto de coleta)?"
	msgAskResponsibleAgain = "Por favor, informe o seu nome (responsável pelo ponto de coleta)."
	msgAskCampaignCode     = "Perfeito. Agora, crie um CÓDIGO único para sua campanha (ex: ESCOLAFREIRE25). " +
		"Este código será usado pelos participantes para se juntarem à sua coleta.\n" +
		"Use apenas letras e números, sem espaços."
	msgInvalidCampaignCode = "Código de campanha inválido. Use apenas letras e números, sem espaços, com até 64 caracteres."
	msgCampaignCodeTaken   = "Este código de campanha já está em uso. Por favor, escolha outro."

	msgAssociationStart = "Para participar, digite o Código da Campanha da sua instituição."
	msgCampaignNotFound = "Código de campanha não encontrado. Verifique e tente novamente."

	msgDonationNeedsDonor = "Você ainda não está participando de nenhuma campanha. Use /participar primeiro."
	msgDonationStart      = "Legal! Quantos litros de óleo (aproximadamente) você está doando?"
	msgInvalidLiters      = "Por favor, digite um número válido para os litros (ex: 2 ou 3.5)."

	MsgCancelled = "Operação cancelada."
)

func msgAlreadyAdmin(institution string) string {
	return fmt.Sprintf("Você já é o admin do ponto de coleta '%s'.\n"+
		"Use /validar <código> para validar uma entrega ou /placar para ver o total arrecadado.", institution)
}

func msgRegistrationDone(institution, code string) string {
	return fmt.Sprintf("✅ Sucesso! Sua instituição '%s' foi cadastrada.\n"+
		"Seu código de campanha é: %s\n\n"+
		"Divulgue este código para que as pessoas possam participar. Obrigado por transformar óleo em futuro!",
		institution, code)
}

func msgAlreadyDonor(institution string) string {
	return fmt.Sprintf("Você já participa da campanha da '%s'.\n"+
		"Para registrar uma entrega de óleo, use o comando /doar.", institution)
}

func msgAssociationDone(institution string) string {
	return fmt.Sprintf("Parabéns! Você agora está participando da campanha da '%s'.\n"+
		"Para registrar sua próxima entrega de óleo, use o comando /doar.", institution)
}

func msgDonationDone(deliveryCode string) string {
	return fmt.Sprintf("Sua intenção de doação foi registrada com sucesso!\n\n"+
		"Ao levar o óleo ao ponto de coleta, por favor, mostre este código para o responsável:\n\n"+
		"%s\n\n"+
		"Muito obrigado por sua contribuição!", deliveryCode)
}

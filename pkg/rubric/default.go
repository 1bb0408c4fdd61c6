package rubric

// Default returns the rubric used by the call-center deployment when no rubric file is configured.
func Default() (r Rubric) {
	r = Rubric{
		Sections: []Section{
			{
				ID:     "pre_atendimento",
				Title:  "Pré-atendimento",
				Weight: 20,
				Questions: []Question{
					{ID: "intro", Text: "O consultor inicia a ligação com uma introdução clara, mencionando seu nome, empresa e o motivo do contato?"},
					{ID: "momento", Text: "Ele verifica rapidamente se é um bom momento para o cliente conversar?"},
					{ID: "espera", Text: "Mantém o cliente informado caso seja necessário colocá-lo em espera, justificando o motivo e o tempo estimado?"},
					{ID: "linguagem_acolhedora", Text: "Ele utiliza uma linguagem acolhedora e positiva, demonstrando entusiasmo e interesse pelo cliente desde o início da ligação?"},
					{ID: "tom_voz", Text: "O consultor utilizou um tom de voz acolhedor e entusiasmado, transmitindo energia positiva ao cliente?"},
					{ID: "foco", Text: "O consultor foi capaz de redirecionar a conversa sempre que o cliente tentou desviar o foco, mantendo o atendimento dentro do objetivo principal?"},
				},
			},
			{
				ID:     "diagnostico",
				Title:  "Diagnóstico",
				Weight: 20,
				Questions: []Question{
					{ID: "perguntas_abertas", Text: "O consultor fez perguntas abertas para entender as necessidades, expectativas e preocupações do cliente?"},
					{ID: "detalhes", Text: "Ele investigou informações mais detalhadas sobre o cliente, como contexto, objetivos e problemas específicos?"},
					{ID: "validacao", Text: "Ele validou as informações obtidas, confirmando que compreendeu corretamente?"},
				},
			},
			{
				ID:     "negociacao",
				Title:  "Negociação",
				Weight: 40,
				Questions: []Question{
					{ID: "solucoes", Text: "O consultor apresentou soluções personalizadas, destacando como elas atendem às necessidades específicas do cliente?"},
					{ID: "alternativas", Text: "Ele explorou alternativas, mostrando flexibilidade e oferecendo opções (ex.: diferentes pacotes, modalidades ou prazos)?"},
					{ID: "exemplos", Text: "Ele utilizou exemplos reais, histórias de sucesso ou depoimentos de outros clientes para criar confiança e conexão?"},
					{ID: "objecoes", Text: "Ele lidou com objeções de maneira profissional, contra-argumentando com benefícios claros e objetivos?"},
					{ID: "persistencia", Text: "Houve persistência em caso de negativa/ausência de resposta?"},
				},
			},
			{
				ID:     "encerramento",
				Title:  "Encerramento",
				Weight: 10,
				Questions: []Question{
					{ID: "proximos_passos", Text: "O consultor informou claramente os próximos passos, como prazos, ações ou requisitos para continuidade?"},
					{ID: "reforco", Text: "Ele reforçou os benefícios da decisão do cliente, assegurando que sua escolha foi a melhor?"},
					{ID: "confirmacao", Text: "Ele confirmou o entendimento do cliente sobre as informações fornecidas e os próximos passos?"},
					{ID: "finalizacao", Text: "Ele finalizou a ligação de forma positiva, agradecendo pelo tempo do cliente e deixando portas abertas para contato futuro?"},
				},
			},
			{
				ID:     "compliance",
				Title:  "Compliance e Operacional",
				Weight: 10,
				Questions: []Question{
					{ID: "registro", Text: "O consultor passou todas as informações / registrou todas as informações do atendimento corretamente no sistema, garantindo integridade e continuidade do processo?"},
					{ID: "linguagem_prof", Text: "Ele utilizou uma linguagem profissional, sem gírias, vícios de linguagem ou tom inadequado?"},
					{ID: "atendimento_candidato", Text: "O consultor prestou o atendimento ao candidato?"},
				},
			},
		},
	}
	return r
}
